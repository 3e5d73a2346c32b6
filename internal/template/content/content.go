// Package content holds the built-in scaffold files and their generators.
//
// Structured formats are produced from typed values: YAML through yaml.v3,
// JSON through encoding/json and TOML through go-toml. Markdown and other
// free text comes from embedded text/template files.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/autopilot/internal/template/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Paths of the built-in scaffold files.
const (
	PathVSCodeSettings      = ".vscode/settings.json"
	PathCopilotInstructions = ".github/copilot-instructions.md"
	PathAgents              = "AGENTS.md"
	PathOrchestrator        = ".github/workflows/copilot-orchestrator.yml"
	PathAutoMerge           = ".github/workflows/copilot-automerge.yml"
	PathSetupSteps          = ".github/workflows/copilot-setup-steps.yml"
	PathIssueTemplate       = ".github/ISSUE_TEMPLATE/copilot-task.md"
	PathIssueConfig         = ".github/ISSUE_TEMPLATE/config.yml"
	PathPullRequestTemplate = ".github/pull_request_template.md"
	PathCodeowners          = ".github/CODEOWNERS"
	PathDependabot          = ".github/dependabot.yml"
	PathChangelog           = "CHANGELOG.md"
	PathCliff               = "cliff.toml"
	PathRelease             = ".github/workflows/release.yml"
)

// TaskLabel is the issue label the orchestrator picks work from.
const TaskLabel = "copilot"

const generatedHeader = "# Generated by autopilot. Edits are preserved until the next setup run.\n"

// Builtin returns the built-in catalog in display order.
func Builtin() []model.Template {
	return []model.Template{
		tmpl(PathVSCodeSettings, "VS Code agent settings", model.CategoryConfiguration, true, vscodeSettings),
		tmpl(PathCopilotInstructions, "Copilot instructions", model.CategoryAgent, true, markdown("copilot-instructions.md.tmpl")),
		tmpl(PathAgents, "Agent guidelines", model.CategoryAgent, false, markdown("agents.md.tmpl")),
		tmpl(PathOrchestrator, "Orchestrator workflow", model.CategoryWorkflow, true, orchestratorWorkflow),
		tmpl(PathAutoMerge, "Auto-merge workflow", model.CategoryWorkflow, true, autoMergeWorkflow),
		tmpl(PathSetupSteps, "Copilot setup steps", model.CategoryCopilot, false, setupStepsWorkflow),
		tmpl(PathIssueTemplate, "Agent task issue template", model.CategoryTemplate, true, issueTemplate),
		tmpl(PathIssueConfig, "Issue template chooser", model.CategoryTemplate, false, issueConfig),
		tmpl(PathPullRequestTemplate, "Pull request template", model.CategoryTemplate, false, markdown("pull_request_template.md.tmpl")),
		tmpl(PathCodeowners, "Code owners", model.CategorySecurity, false, markdown("CODEOWNERS.tmpl")),
		tmpl(PathDependabot, "Dependabot", model.CategorySecurity, false, dependabot),
		tmpl(PathChangelog, "Changelog", model.CategoryVersioning, false, markdown("CHANGELOG.md.tmpl")),
		tmpl(PathCliff, "git-cliff configuration", model.CategoryVersioning, false, cliffConfig),
		tmpl(PathRelease, "Release workflow", model.CategoryVersioning, false, releaseWorkflow),
	}
}

func tmpl(path, name string, category model.Category, critical bool, gen model.ContentGenerator) model.Template {
	return model.Template{
		TemplateDescriptor: model.TemplateDescriptor{
			Path:        path,
			DisplayName: name,
			Category:    category,
			Critical:    critical,
		},
		Generate: gen,
	}
}

// markdownData is the value passed to embedded text templates.
type markdownData struct {
	model.RenderOptions
	TaskLabel string
}

// markdown returns a generator rendering the named embedded template.
func markdown(name string) model.ContentGenerator {
	return func(opts model.RenderOptions) (string, error) {
		return renderText(name, opts)
	}
}

func renderText(name string, opts model.RenderOptions) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", name, err)
	}

	t, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	data := markdownData{RenderOptions: opts.WithDefaults(), TaskLabel: TaskLabel}
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// encodeYAML marshals v with two-space indentation behind the generated header.
func encodeYAML(v any) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.String(), nil
}

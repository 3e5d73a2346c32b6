package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/autopilot/internal/template/model"
)

// issueFrontMatter is the YAML header GitHub reads from markdown issue templates.
type issueFrontMatter struct {
	Name   string   `yaml:"name"`
	About  string   `yaml:"about"`
	Title  string   `yaml:"title"`
	Labels []string `yaml:"labels"`
}

func issueTemplate(opts model.RenderOptions) (string, error) {
	front := issueFrontMatter{
		Name:   "Copilot task",
		About:  "A scoped task for the coding agent to pick up",
		Title:  "[Task] ",
		Labels: []string{TaskLabel},
	}
	header, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	body, err := renderText("copilot-task.md.tmpl", opts)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.String(), nil
}

type contactLink struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	About string `yaml:"about"`
}

type issueChooser struct {
	BlankIssuesEnabled bool          `yaml:"blank_issues_enabled"`
	ContactLinks       []contactLink `yaml:"contact_links,omitempty"`
}

func issueConfig(opts model.RenderOptions) (string, error) {
	opts = opts.WithDefaults()
	cfg := issueChooser{BlankIssuesEnabled: false}
	if opts.Owner != "" && opts.Repo != "" {
		cfg.ContactLinks = []contactLink{{
			Name:  "Agent guidelines",
			URL:   fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", opts.Owner, opts.Repo, opts.BaseBranch, PathAgents),
			About: "How tasks are written for the coding agent",
		}}
	}
	return encodeYAML(cfg)
}

type dependabotSchedule struct {
	Interval string `yaml:"interval"`
}

type dependabotUpdate struct {
	PackageEcosystem      string             `yaml:"package-ecosystem"`
	Directory             string             `yaml:"directory"`
	Schedule              dependabotSchedule `yaml:"schedule"`
	Labels                []string           `yaml:"labels,omitempty"`
	OpenPullRequestsLimit int                `yaml:"open-pull-requests-limit,omitempty"`
}

type dependabotConfig struct {
	Version int                `yaml:"version"`
	Updates []dependabotUpdate `yaml:"updates"`
}

func dependabot(model.RenderOptions) (string, error) {
	cfg := dependabotConfig{
		Version: 2,
		Updates: []dependabotUpdate{{
			PackageEcosystem:      "github-actions",
			Directory:             "/",
			Schedule:              dependabotSchedule{Interval: "weekly"},
			Labels:                []string{"dependencies"},
			OpenPullRequestsLimit: 5,
		}},
	}
	return encodeYAML(cfg)
}

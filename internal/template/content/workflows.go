package content

import (
	"fmt"
	"strings"

	"github.com/tacogips/autopilot/internal/template/model"
)

// GitHub Actions document shapes. Field order follows the usual workflow layout.
type workflow struct {
	Name        string            `yaml:"name"`
	On          triggers          `yaml:"on"`
	Permissions map[string]string `yaml:"permissions,omitempty"`
	Concurrency *concurrency      `yaml:"concurrency,omitempty"`
	Jobs        map[string]job    `yaml:"jobs"`
}

type triggers struct {
	Schedule         []cronTrigger `yaml:"schedule,omitempty"`
	WorkflowDispatch *struct{}     `yaml:"workflow_dispatch,omitempty"`
	Issues           *eventTypes   `yaml:"issues,omitempty"`
	PullRequest      *prTrigger    `yaml:"pull_request,omitempty"`
	Push             *pushTrigger  `yaml:"push,omitempty"`
}

type cronTrigger struct {
	Cron string `yaml:"cron"`
}

type eventTypes struct {
	Types []string `yaml:"types"`
}

type prTrigger struct {
	Types    []string `yaml:"types,omitempty"`
	Branches []string `yaml:"branches,omitempty"`
	Paths    []string `yaml:"paths,omitempty"`
}

type pushTrigger struct {
	Branches []string `yaml:"branches,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Paths    []string `yaml:"paths,omitempty"`
}

type concurrency struct {
	Group            string `yaml:"group"`
	CancelInProgress bool   `yaml:"cancel-in-progress"`
}

type job struct {
	Name           string            `yaml:"name,omitempty"`
	RunsOn         string            `yaml:"runs-on"`
	Permissions    map[string]string `yaml:"permissions,omitempty"`
	TimeoutMinutes int               `yaml:"timeout-minutes,omitempty"`
	Env            map[string]string `yaml:"env,omitempty"`
	Steps          []step            `yaml:"steps"`
}

type step struct {
	Name string            `yaml:"name,omitempty"`
	ID   string            `yaml:"id,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

const (
	runner         = "ubuntu-latest"
	checkoutAction = "actions/checkout@v4"
)

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func secretRef(name string) string {
	return "${{ secrets." + name + " }}"
}

// orchestratorWorkflow assigns the oldest open task issue to the agent when
// no agent pull request is in flight.
func orchestratorWorkflow(opts model.RenderOptions) (string, error) {
	opts = opts.WithDefaults()

	assign := script(
		`set -euo pipefail`,
		`open_prs=$(gh pr list --repo "$REPO" --author "app/$AGENT_LOGIN" --state open --json number --jq 'length')`,
		`if [ "$open_prs" -gt 0 ]; then`,
		`  echo "Agent pull request already open; skipping."`,
		`  exit 0`,
		`fi`,
		`issue=$(gh issue list --repo "$REPO" --label "$TASK_LABEL" --state open --search "no:assignee sort:created-asc" --limit 1 --json number --jq '.[0].number // empty')`,
		`if [ -z "$issue" ]; then`,
		`  echo "No unassigned task issues."`,
		`  exit 0`,
		`fi`,
		`owner="${REPO%%/*}"`,
		`name="${REPO##*/}"`,
		`ids=$(gh api graphql -f query='`,
		`  query($owner: String!, $name: String!, $number: Int!) {`,
		`    repository(owner: $owner, name: $name) {`,
		`      suggestedActors(capabilities: [CAN_BE_ASSIGNED], first: 100) {`,
		`        nodes { login ... on Bot { id } ... on User { id } }`,
		`      }`,
		`      issue(number: $number) { id }`,
		`    }`,
		`  }' -f owner="$owner" -f name="$name" -F number="$issue")`,
		`bot_id=$(echo "$ids" | jq -r --arg login "$AGENT_LOGIN" '.data.repository.suggestedActors.nodes[] | select(.login == $login) | .id')`,
		`issue_id=$(echo "$ids" | jq -r '.data.repository.issue.id')`,
		`if [ -z "$bot_id" ]; then`,
		`  echo "::error::$AGENT_LOGIN is not assignable in $REPO"`,
		`  exit 1`,
		`fi`,
		`gh api graphql -f query='`,
		`  mutation($assignable: ID!, $actor: ID!) {`,
		`    replaceActorsForAssignable(input: {assignableId: $assignable, actorIds: [$actor]}) {`,
		`      assignable { ... on Issue { number } }`,
		`    }`,
		`  }' -F assignable="$issue_id" -F actor="$bot_id"`,
		`echo "Assigned issue #$issue to $AGENT_LOGIN"`,
	)

	wf := workflow{
		Name: "Copilot Orchestrator",
		On: triggers{
			Schedule:         []cronTrigger{{Cron: opts.Schedule}},
			WorkflowDispatch: &struct{}{},
			Issues:           &eventTypes{Types: []string{"labeled", "closed"}},
		},
		Permissions: map[string]string{
			"contents":      "read",
			"issues":        "write",
			"pull-requests": "read",
		},
		Concurrency: &concurrency{Group: "copilot-orchestrator", CancelInProgress: false},
		Jobs: map[string]job{
			"assign": {
				Name:           "Assign next task",
				RunsOn:         runner,
				TimeoutMinutes: 10,
				Env: map[string]string{
					"GH_TOKEN":    secretRef(opts.SecretName),
					"REPO":        "${{ github.repository }}",
					"AGENT_LOGIN": opts.AgentLogin,
					"TASK_LABEL":  TaskLabel,
				},
				Steps: []step{
					{Name: "Assign oldest open task", Run: assign},
				},
			},
		},
	}
	return encodeYAML(wf)
}

// autoMergeWorkflow enables auto-merge on agent pull requests and merges at
// most one per run.
func autoMergeWorkflow(opts model.RenderOptions) (string, error) {
	opts = opts.WithDefaults()
	strategy, err := model.ParseMergeStrategy(string(opts.MergeStrategy))
	if err != nil {
		return "", err
	}

	merge := script(
		`set -euo pipefail`,
		`if [ "$AUTO_MERGE" != "true" ]; then`,
		`  echo "Auto-merge disabled; review and merge manually."`,
		`  exit 0`,
		`fi`,
		`pr=$(gh pr list --repo "$REPO" --author "app/$AGENT_LOGIN" --state open --base "$BASE_BRANCH" --json number,isDraft --jq '[.[] | select(.isDraft | not)][0].number // empty')`,
		`if [ -z "$pr" ]; then`,
		`  echo "No ready agent pull request."`,
		`  exit 0`,
		`fi`,
		`gh pr merge "$pr" --repo "$REPO" --auto --delete-branch "--$MERGE_STRATEGY"`,
		`echo "Auto-merge queued for #$pr"`,
	)

	autoMerge := "false"
	if opts.AutoMerge {
		autoMerge = "true"
	}

	wf := workflow{
		Name: "Copilot Auto-merge",
		On: triggers{
			WorkflowDispatch: &struct{}{},
			PullRequest: &prTrigger{
				Types:    []string{"opened", "reopened", "synchronize", "ready_for_review"},
				Branches: []string{opts.BaseBranch},
			},
		},
		Permissions: map[string]string{
			"contents":      "write",
			"pull-requests": "write",
		},
		Concurrency: &concurrency{Group: "copilot-automerge", CancelInProgress: false},
		Jobs: map[string]job{
			"merge": {
				Name:           "Queue agent pull request",
				RunsOn:         runner,
				TimeoutMinutes: 10,
				Env: map[string]string{
					"GH_TOKEN":       secretRef(opts.SecretName),
					"REPO":           "${{ github.repository }}",
					"AGENT_LOGIN":    opts.AgentLogin,
					"BASE_BRANCH":    opts.BaseBranch,
					"MERGE_STRATEGY": string(strategy),
					"AUTO_MERGE":     autoMerge,
				},
				Steps: []step{
					{Name: "Enable auto-merge", Run: merge},
				},
			},
		},
	}
	return encodeYAML(wf)
}

// setupStepsWorkflow prepares the agent's environment. The job id is fixed
// by the agent runtime.
func setupStepsWorkflow(opts model.RenderOptions) (string, error) {
	wf := workflow{
		Name: "Copilot Setup Steps",
		On: triggers{
			WorkflowDispatch: &struct{}{},
			Push:             &pushTrigger{Paths: []string{PathSetupSteps}},
			PullRequest:      &prTrigger{Paths: []string{PathSetupSteps}},
		},
		Jobs: map[string]job{
			"copilot-setup-steps": {
				RunsOn:      runner,
				Permissions: map[string]string{"contents": "read"},
				Steps: []step{
					{Name: "Checkout", Uses: checkoutAction},
					{
						Name: "Show toolchain",
						Run: script(
							`git --version`,
							`gh --version`,
						),
					},
				},
			},
		},
	}
	return encodeYAML(wf)
}

// releaseWorkflow publishes a GitHub release with notes from git-cliff.
func releaseWorkflow(opts model.RenderOptions) (string, error) {
	opts = opts.WithDefaults()

	wf := workflow{
		Name: "Release",
		On: triggers{
			Push: &pushTrigger{Tags: []string{"v*"}},
		},
		Permissions: map[string]string{"contents": "write"},
		Jobs: map[string]job{
			"release": {
				Name:   fmt.Sprintf("Release %s", opts.Name()),
				RunsOn: runner,
				Steps: []step{
					{Name: "Checkout", Uses: checkoutAction, With: map[string]string{"fetch-depth": "0"}},
					{
						Name: "Generate release notes",
						ID:   "notes",
						Uses: "orhun/git-cliff-action@v4",
						With: map[string]string{
							"config": PathCliff,
							"args":   "--latest --strip header",
						},
					},
					{
						Name: "Publish release",
						Uses: "softprops/action-gh-release@v2",
						With: map[string]string{
							"body": "${{ steps.notes.outputs.content }}",
						},
					},
				},
			},
		},
	}
	return encodeYAML(wf)
}

package content

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/tacogips/autopilot/internal/template/model"
)

type cliffChangelog struct {
	Header string `toml:"header,multiline"`
	Body   string `toml:"body,multiline"`
	Footer string `toml:"footer"`
	Trim   bool   `toml:"trim"`
}

type commitParser struct {
	Message string `toml:"message"`
	Group   string `toml:"group,omitempty"`
	Skip    bool   `toml:"skip,omitempty"`
}

type cliffGit struct {
	ConventionalCommits  bool           `toml:"conventional_commits"`
	FilterUnconventional bool           `toml:"filter_unconventional"`
	CommitParsers        []commitParser `toml:"commit_parsers"`
	FilterCommits        bool           `toml:"filter_commits"`
	TagPattern           string         `toml:"tag_pattern"`
	SortCommits          string         `toml:"sort_commits"`
}

type cliffDocument struct {
	Changelog cliffChangelog `toml:"changelog"`
	Git       cliffGit       `toml:"git"`
}

const cliffBody = `
{% if version %}## [{{ version | trim_start_matches(pat="v") }}] - {{ timestamp | date(format="%Y-%m-%d") }}{% else %}## [Unreleased]{% endif %}
{% for group, commits in commits | group_by(attribute="group") %}
### {{ group | upper_first }}
{% for commit in commits %}
- {{ commit.message | upper_first }}{% endfor %}
{% endfor %}
`

func cliffConfig(opts model.RenderOptions) (string, error) {
	opts = opts.WithDefaults()

	doc := cliffDocument{
		Changelog: cliffChangelog{
			Header: fmt.Sprintf("# Changelog\n\nAll notable changes to %s are documented in this file.\n", opts.Name()),
			Body:   cliffBody,
			Trim:   true,
		},
		Git: cliffGit{
			ConventionalCommits:  true,
			FilterUnconventional: true,
			CommitParsers: []commitParser{
				{Message: "^feat", Group: "Features"},
				{Message: "^fix", Group: "Bug Fixes"},
				{Message: "^doc", Group: "Documentation"},
				{Message: "^perf", Group: "Performance"},
				{Message: "^refactor", Group: "Refactor"},
				{Message: "^test", Group: "Testing"},
				{Message: "^chore\\(release\\)", Skip: true},
				{Message: "^chore", Group: "Miscellaneous"},
			},
			TagPattern:  "v[0-9].*",
			SortCommits: "oldest",
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding cliff config: %w", err)
	}
	return generatedHeader + string(data), nil
}

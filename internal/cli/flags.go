package cli

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig        = "config"
	FlagDir           = "dir"
	FlagDryRun        = "dry-run"
	FlagYes           = "yes"
	FlagNoColor       = "no-color"
	FlagQuiet         = "quiet"
	FlagDebug         = "debug"
	FlagJSON          = "json"
	FlagMode          = "mode"
	FlagFiles         = "files"
	FlagMergeStrategy = "merge-strategy"
	FlagMaxIterations = "max-iterations"
	FlagNoAutoMerge   = "no-auto-merge"
	FlagBaseBranch    = "base-branch"
	FlagSkipConfigure = "skip-configure"
	FlagCommit        = "commit"
	FlagPush          = "push"
	FlagMessage       = "message"
	FlagStrict        = "strict"
	FlagLocal         = "local"
	FlagForce         = "force"
	FlagIncludeMod    = "include-modified"

	// Flag descriptions
	DescConfig        = "Path to config file (default $XDG_CONFIG_HOME/autopilot/config.yaml)"
	DescDir           = "Directory inside the target repository"
	DescDryRun        = "Show the files that would be written without writing them"
	DescYes           = "Accept defaults and skip all prompts"
	DescNoColor       = "Disable colored output"
	DescQuiet         = "Suppress non-error output"
	DescDebug         = "Enable debug logging"
	DescJSON          = "Output as JSON"
	DescMode          = "File selection: full, minimal or custom"
	DescFiles         = "Files for custom mode (paths or unique file names)"
	DescMergeStrategy = "Merge strategy for agent pull requests: squash, merge or rebase"
	DescMaxIterations = "Agent request limit per session (1-50)"
	DescNoAutoMerge   = "Do not auto-merge agent pull requests"
	DescBaseBranch    = "Branch agent pull requests target (default: repository default branch)"
	DescSkipConfigure = "Only write files, do not change repository settings"
	DescCommit        = "Commit the written files"
	DescPush          = "Push the commit to origin (implies --commit)"
	DescMessage       = "Commit message"
	DescStrict        = "Exit with an error when a required check fails"
	DescLocal         = "Only check local files, skip GitHub probes"
	DescForce         = "Overwrite an existing file"
	DescIncludeMod    = "Also remove scaffold files whose content differs from the generated content"
)

package scaffold

// Short messages (one-liners)
const (
	MsgRootShort       = "Assemble a project from layered asset packages"
	MsgRootLong        = "scaffold lays the assets of one or more packages onto a project directory.\n\nPackages are applied in priority order (highest last). Each asset is\ncreated, overwritten, merged into an existing file or skipped, and a\npackage may ask questions whose answers feed its templates."
	MsgApplyShort      = "Apply the configured packages to the project"
	MsgApplyLong       = "Apply resolves every package's asset rules, settles destination collisions\nby package priority and writes the result. Files already matching the\nplanned content are left alone."
	MsgPlanShort       = "Show what apply would do, without prompting or writing"
	MsgConfigShort     = "Print the default project configuration"
	MsgConfigLong      = "Print the default scaffold.toml with every value commented out.\n\nWith --write, create scaffold.toml in the project root unless it exists."
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man page"

	MsgNoCommand     = "no command specified"
	MsgConfigWritten = "Wrote %s\n"
	MsgConfigExists  = "%s already exists"
	MsgFallbackRoot  = "Warning: no project root found, using current directory %s\n"
)

// Flag descriptions
const (
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun        = "Report what would happen without writing anything"
	MsgFlagNoInteraction = "Never prompt; questions fall back to known values and defaults"
	MsgFlagProject       = "Project root (default: $SCAFFOLD_PROJECT_ROOT, the git root or the current directory)"
	MsgFlagFormat        = "Output format: auto, term, text or json"
	MsgFlagPackage       = "Restrict the run to the named packages (repeatable)"
	MsgFlagSet           = "Set a variable, key=value (repeatable)"
	MsgFlagDigest        = "Show content digests of planned writes"
	MsgFlagWrite         = "Write scaffold.toml instead of printing it"
)

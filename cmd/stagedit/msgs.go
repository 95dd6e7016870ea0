package stagedit

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Edit files through staging copies and install the changes atomically"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
	MsgConfigShort     = "Print the effective configuration"
	MsgFormatShort     = "Describe the staging file format"

	// Status messages
	MsgInstalled    = "Successfully installed edited file '%s'."
	MsgSkipped      = "No content in '%s', not installed."
	MsgInstallError = "Failed to install '%s': %v"
	MsgVersion      = "stagedit version %s\n  commit: %s\n  built:  %s\n"
	MsgManWritten   = "Man pages written to %s\n"

	// Error messages
	MsgErrNoFiles        = "at least one FILE is required"
	MsgErrOriginalSingle = "--original can only be used with a single FILE"
	MsgErrLoadConfig     = "failed to load configuration: %w"
	MsgErrPartial        = "%d of %d file(s) could not be installed"

	// Flag descriptions
	MsgFlagVerbose           = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOriginal          = "Seed the staging copy from this file instead of FILE (implies --no-template)"
	MsgFlagComment           = "Append this file as commented-out reference (repeatable)"
	MsgFlagMarkerStart       = "Line marking the start of the editable region"
	MsgFlagMarkerEnd         = "Line marking the end of the editable region"
	MsgFlagNoTemplate        = "Stage plain copies without markers or comments"
	MsgFlagRemoveEmptyParent = "Remove each FILE's parent directory afterwards if it is empty"
	MsgFlagLabel             = "Security labeling of created files (none, xattr)"
	MsgFlagNoColor           = "Disable colored output"
	MsgFlagConfig            = "Read configuration from this file"
	MsgFlagFormat            = "Output format (toml, yaml)"
	MsgFlagGenerate          = "Print a commented configuration template instead"
	MsgFlagManDir            = "Directory to write man pages to"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/format.md
	MsgFormatDoc string
)

// MsgUsageTemplate is the cobra usage template
const MsgUsageTemplate = `{{boldUpper "Usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "Commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"goemon/internal/config"
	"goemon/internal/exitcode"
	"goemon/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "goemon help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprint(out, usageText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-8s %s\n", cmd.Name(), cmd.Synopsis())
	}
	fmt.Fprint(out, flagsText)
	return exitcode.Success
}

const usageText = `Usage:
  goemon import [common flags] [sync flags] [--overwrite] <task>
  goemon export [common flags] [sync flags] [--dry-run] <task>
  goemon url [--shared] <task>
  goemon help
  goemon version

<task> is a task ID, a share ID with --shared, or a task/share URL.
`

const flagsText = `
Sync flags:
  --all                 Every property; unset paths use the default layout
  --shared              The reference is a shared task (/s/)
  -d, --base-dir <dir>  Base directory (default .)
  --meta <path>         Metadata (meta.yml)
  --description <path>  Description (description.md)
  --script <path>       Script (script.js)
  --param <path>        Parameters (param.yml)
  --paramschema <path>  Parameter schema (paramschema.yml)
  --files <dir>         Attached files (files/)
  A path of - means stdout on import and stdin on export.

Common flags:
  --config <dir>   Override config directory
  -q, --quiet      Suppress informational output
  -v, --verbose    Print debug logs to stderr

Environment:
  GOEMON_TOKEN     Bearer token (required for import and export)
  GOEMON_ENDPOINT  API origin (default https://goemon.cloud)
`

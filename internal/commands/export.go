package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"goemon/internal/config"
	"goemon/internal/exitcode"
	"goemon/internal/service"
	"goemon/internal/transfer"
	"goemon/internal/workspace"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	flags  syncFlags
	dryRun bool
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Send local files to a remote task" }
func (c *ExportCmd) Usage() string {
	return "goemon export [--all] [--shared] [--dry-run] [-d <dir>] [property flags] <task>"
}
func (c *ExportCmd) NeedsAuth() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.flags.register(fs)
	fs.BoolVar(&c.dryRun, "dry-run", false, "print the changes without sending them")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args, c.flags.shared)
	if err != nil {
		return reportRefError(errOut, err)
	}

	sel := c.flags.selection()
	ws, err := workspace.Open(c.flags.baseDir, false, in, out)
	if err != nil {
		return reportError(errOut, ref, err)
	}
	syncer := transfer.New(svc, ws, out, cfg.Logger())

	cfg.Logger().Debug("export", "task", ref.WebURL(), "base_dir", ws.Root(), "dry_run", c.dryRun)
	res, err := syncer.Export(ctx, ref, sel, c.dryRun)
	if err != nil {
		return reportError(errOut, ref, err)
	}

	if cfg.Quiet || c.dryRun {
		return exitcode.Success
	}
	if res.Changed() {
		fmt.Fprintln(out, "ok")
	} else {
		fmt.Fprintln(out, "no changes")
	}
	return exitcode.Success
}

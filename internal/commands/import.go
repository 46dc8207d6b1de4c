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
	Register(&ImportCmd{})
}

// ImportCmd implements the import command.
type ImportCmd struct {
	flags     syncFlags
	overwrite bool
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Copy a remote task into local files" }
func (c *ImportCmd) Usage() string {
	return "goemon import [--all] [--shared] [--overwrite] [-d <dir>] [property flags] <task>"
}
func (c *ImportCmd) NeedsAuth() bool { return true }

func (c *ImportCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.flags.register(fs)
	fs.BoolVar(&c.overwrite, "overwrite", false, "replace existing local files")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args, c.flags.shared)
	if err != nil {
		return reportRefError(errOut, err)
	}

	sel := c.flags.selection()
	ws, err := workspace.Open(c.flags.baseDir, c.overwrite, in, out)
	if err != nil {
		return reportError(errOut, ref, err)
	}
	syncer := transfer.New(svc, ws, out, cfg.Logger())

	cfg.Logger().Debug("import", "task", ref.WebURL(), "base_dir", ws.Root())
	if err := syncer.Import(ctx, ref, sel); err != nil {
		return reportError(errOut, ref, err)
	}

	if !cfg.Quiet && !sel.UsesStdio() {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

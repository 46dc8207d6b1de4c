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
	Register(&URLCmd{})
}

// URLCmd implements the url command.
type URLCmd struct {
	shared bool
}

func (c *URLCmd) Name() string      { return "url" }
func (c *URLCmd) Aliases() []string { return nil }
func (c *URLCmd) Synopsis() string  { return "Print the web address of a task" }
func (c *URLCmd) Usage() string     { return "goemon url [--shared] <task>" }
func (c *URLCmd) NeedsAuth() bool   { return false }

func (c *URLCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.shared, "shared", false, "the reference is a shared task")
}

func (c *URLCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args, c.shared)
	if err != nil {
		return reportRefError(errOut, err)
	}
	fmt.Fprintln(out, ref.WebURL())
	return exitcode.Success
}

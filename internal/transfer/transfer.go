// Package transfer moves task content between a remote task and the local
// workspace.
package transfer

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"goemon/internal/service"
	"goemon/internal/workspace"
)

// Syncer runs imports and exports for one invocation.
type Syncer struct {
	svc service.Service
	ws  *workspace.Workspace
	out io.Writer // dry-run report
	log *slog.Logger
}

// New creates a Syncer. out receives the dry-run report.
func New(svc service.Service, ws *workspace.Workspace, out io.Writer, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Syncer{svc: svc, ws: ws, out: out, log: log}
}

// checkName rejects file names that would leave the files directory.
func checkName(name string) error {
	clean := path.Clean(name)
	if name == "" || path.IsAbs(name) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid file name: %q", name)
	}
	return nil
}

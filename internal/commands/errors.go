package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"goemon/internal/config"
	"goemon/internal/exitcode"
	"goemon/internal/service"
	"goemon/internal/transfer"
)

// reportError prints err for the task ref and returns the matching exit code.
func reportError(errOut io.Writer, ref service.TaskRef, err error) int {
	var remoteErr *transfer.RemoteError
	switch {
	case errors.Is(err, config.ErrTokenMissing), errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: task not found: %s\n", ref.WebPath())
		return exitcode.UserError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	case errors.As(err, &remoteErr):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
}

// reportRefError prints a task reference parse error.
func reportRefError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskRefRequired) {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

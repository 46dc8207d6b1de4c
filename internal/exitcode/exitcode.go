// Package exitcode defines the process exit statuses of goemon.
package exitcode

const (
	// Success: the command did what was asked, including a dry run.
	Success = 0

	// UserError covers bad arguments or references, unknown tasks, invalid
	// local content and refused overwrites.
	UserError = 1

	// AuthError means GOEMON_TOKEN is missing or was rejected.
	AuthError = 2

	// BackendError covers network failures, server errors and responses
	// the client cannot use.
	BackendError = 3
)

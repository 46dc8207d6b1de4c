// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when a task reference does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the credential is missing or rejected.
	ErrUnauthorized = errors.New("token missing or rejected")
)

// Service defines the interface for task backend operations.
// Commands never talk HTTP directly.
type Service interface {
	// GetTask returns the current state of a task.
	GetTask(ctx context.Context, ref TaskRef) (*Task, error)

	// PatchTask sends a partial update and returns the updated task.
	// Returned files carry the upload links for newly declared content.
	PatchTask(ctx context.Context, ref TaskRef, patch Patch) (*Task, error)

	// DownloadFile returns the content of a remote file.
	DownloadFile(ctx context.Context, file File) ([]byte, error)

	// UploadFile sends content to the upload link of a file.
	UploadFile(ctx context.Context, file File, content io.Reader) error
}

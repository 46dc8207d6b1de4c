// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"

	"goemon/internal/service"
)

const (
	downloadScheme = "fake-download://"
	uploadScheme   = "fake-upload://"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.Mutex
	tasks    map[service.TaskRef]*service.Task
	contents map[string][]byte // sha256 -> content

	// Calls records every request as "<METHOD> <target>".
	Calls []string

	// Error injection for testing
	GetTaskErr   error
	PatchTaskErr error
	DownloadErr  error
	UploadErr    error

	// DropUploadLinks makes PatchTask return files without upload links
	// matching the patched content.
	DropUploadLinks bool
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:    make(map[service.TaskRef]*service.Task),
		contents: make(map[string][]byte),
	}
}

// AddTask stores a task under ref.
func (f *FakeService) AddTask(ref service.TaskRef, task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := clone(&task)
	f.tasks[ref] = t
}

// AddFile attaches a file with content to the task under ref.
func (f *FakeService) AddFile(ref service.TaskRef, file service.File, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hash := hashOf(content)
	f.contents[hash] = append([]byte(nil), content...)
	file.HashSHA256 = hash
	file.Size = int64(len(content))
	file.DownloadURL = downloadScheme + hash

	t, ok := f.tasks[ref]
	if !ok {
		t = &service.Task{}
		f.tasks[ref] = t
	}
	t.Files = append(t.Files, file)
}

// Task returns a copy of the stored task, or nil.
func (f *FakeService) Task(ref service.TaskRef) *service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[ref]
	if !ok {
		return nil
	}
	return clone(t)
}

// FileContent returns the stored content of a task's file.
func (f *FakeService) FileContent(ref service.TaskRef, name string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[ref]
	if !ok {
		return nil, false
	}
	for _, file := range t.Files {
		if file.Name == name {
			data, ok := f.contents[file.HashSHA256]
			return data, ok
		}
	}
	return nil, false
}

// Writes counts the calls that changed remote state.
func (f *FakeService) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, "PATCH ") || strings.HasPrefix(c, "PUT ") {
			n++
		}
	}
	return n
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, ref service.TaskRef) (*service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "GET "+ref.String())

	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}
	t, ok := f.tasks[ref]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", ref.ID, service.ErrNotFound)
	}
	return clone(t), nil
}

// PatchTask implements service.Service.
func (f *FakeService) PatchTask(ctx context.Context, ref service.TaskRef, patch service.Patch) (*service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "PATCH "+ref.String())

	if f.PatchTaskErr != nil {
		return nil, f.PatchTaskErr
	}
	t, ok := f.tasks[ref]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", ref.ID, service.ErrNotFound)
	}

	src := patch.Task
	for _, field := range patch.Fields {
		switch field {
		case service.FieldTitle:
			t.Title = src.Title
		case service.FieldPublic:
			t.Public = src.Public
		case service.FieldImportable:
			t.Importable = src.Importable
		case service.FieldDistributable:
			t.Distributable = src.Distributable
		case service.FieldCreatorLogType:
			t.CreatorLogType = src.CreatorLogType
		case service.FieldAuthorLogType:
			t.AuthorLogType = src.AuthorLogType
		case service.FieldDescription:
			t.Description = src.Description
		case service.FieldScript:
			t.Script = src.Script
		case service.FieldParam:
			t.Param = src.Param
		case service.FieldParamSchema:
			t.ParamSchema = src.ParamSchema
		case service.FieldFiles:
			t.Files = make([]service.File, 0, len(src.Files))
			for _, file := range src.Files {
				file.DownloadURL = downloadScheme + file.HashSHA256
				file.UploadURL = ""
				if !f.DropUploadLinks {
					file.UploadURL = uploadScheme + file.HashSHA256
				}
				t.Files = append(t.Files, file)
			}
		default:
			return nil, fmt.Errorf("unknown task attribute: %s", field)
		}
	}
	return clone(t), nil
}

// DownloadFile implements service.Service.
func (f *FakeService) DownloadFile(ctx context.Context, file service.File) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "DOWNLOAD "+file.Name)

	if f.DownloadErr != nil {
		return nil, f.DownloadErr
	}
	hash, ok := strings.CutPrefix(file.DownloadURL, downloadScheme)
	if !ok {
		return nil, fmt.Errorf("no download link for %s", file.Name)
	}
	data, ok := f.contents[hash]
	if !ok {
		return nil, fmt.Errorf("download %s: server returned HTTP 404", file.Name)
	}
	return append([]byte(nil), data...), nil
}

// UploadFile implements service.Service.
func (f *FakeService) UploadFile(ctx context.Context, file service.File, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "PUT "+file.Name)

	if f.UploadErr != nil {
		return f.UploadErr
	}
	want, ok := strings.CutPrefix(file.UploadURL, uploadScheme)
	if !ok {
		return fmt.Errorf("no upload link for %s", file.Name)
	}
	if got := hashOf(data); got != want {
		return fmt.Errorf("upload %s: content hash %s, declared %s", file.Name, got, want)
	}
	f.contents[want] = data
	return nil
}

func clone(t *service.Task) *service.Task {
	c := *t
	if t.Files != nil {
		c.Files = append([]service.File(nil), t.Files...)
	}
	return &c
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Package workspace reads and writes the local representation of a task.
package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Stdio is the path that selects the standard streams instead of a file.
const Stdio = "-"

// ErrExists is returned when a write would replace an existing file.
var ErrExists = errors.New("file already exists")

// Workspace is the base directory of the local representation.
// Relative paths resolve against the base; absolute paths are used as given.
type Workspace struct {
	fs        billy.Filesystem
	base      string
	overwrite bool

	in  io.Reader
	out io.Writer
}

// Open returns a workspace based at dir on the OS filesystem.
func Open(dir string, overwrite bool, in io.Reader, out io.Writer) (*Workspace, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("base directory %s: %w", dir, err)
	}
	return New(osfs.New("/", osfs.WithBoundOS()), base, overwrite, in, out), nil
}

// New returns a workspace on fs based at base. in and out back the "-" path.
func New(fs billy.Filesystem, base string, overwrite bool, in io.Reader, out io.Writer) *Workspace {
	return &Workspace{fs: fs, base: base, overwrite: overwrite, in: in, out: out}
}

// Root returns the base directory.
func (w *Workspace) Root() string {
	return w.base
}

// resolve returns the filesystem path for name.
func (w *Workspace) resolve(name string) string {
	if filepath.IsAbs(name) || w.base == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(w.base, name)
}

// ReadFile returns the content at name, reading stdin for "-".
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	if name == Stdio {
		return io.ReadAll(w.in)
	}
	data, err := util.ReadFile(w.fs, w.resolve(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.display(name), err)
	}
	return data, nil
}

// WriteFile stores data at name, creating parent directories and writing to
// stdout for "-". Existing files are replaced only in overwrite mode.
func (w *Workspace) WriteFile(name string, data []byte) error {
	if name == Stdio {
		_, err := w.out.Write(data)
		return err
	}
	if err := w.CheckWritable(name); err != nil {
		return err
	}
	target := w.resolve(name)
	if dir := filepath.Dir(target); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(w.fs, target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.display(name), err)
	}
	return nil
}

// Exists reports whether name is present.
func (w *Workspace) Exists(name string) (bool, error) {
	_, err := w.fs.Stat(w.resolve(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", w.display(name), err)
	}
}

// FileInfo describes a local file about to be exported.
type FileInfo struct {
	Path         string
	HashSHA256   string
	Size         int64
	LastModified int64 // milliseconds since epoch
}

// Inspect hashes the file at name and reports its size and mtime.
func (w *Workspace) Inspect(name string) (FileInfo, error) {
	st, err := w.fs.Stat(w.resolve(name))
	if errors.Is(err, os.ErrNotExist) {
		return FileInfo{}, fmt.Errorf("file not found: %s", w.display(name))
	}
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat %s: %w", w.display(name), err)
	}
	if st.IsDir() {
		return FileInfo{}, fmt.Errorf("not a file: %s", w.display(name))
	}

	f, err := w.fs.Open(w.resolve(name))
	if err != nil {
		return FileInfo{}, fmt.Errorf("open %s: %w", w.display(name), err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return FileInfo{}, fmt.Errorf("read %s: %w", w.display(name), err)
	}
	return FileInfo{
		Path:         name,
		HashSHA256:   hex.EncodeToString(h.Sum(nil)),
		Size:         n,
		LastModified: st.ModTime().UnixMilli(),
	}, nil
}

// OpenFile opens name for reading.
func (w *Workspace) OpenFile(name string) (io.ReadCloser, error) {
	f, err := w.fs.Open(w.resolve(name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", w.display(name), err)
	}
	return f, nil
}

// CheckWritable returns ErrExists for the first of names that is present,
// unless the workspace overwrites.
func (w *Workspace) CheckWritable(names ...string) error {
	if w.overwrite {
		return nil
	}
	for _, name := range names {
		ok, err := w.Exists(name)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: %s", ErrExists, w.display(name))
		}
	}
	return nil
}

// display returns name as shown in messages.
func (w *Workspace) display(name string) string {
	return w.resolve(name)
}

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

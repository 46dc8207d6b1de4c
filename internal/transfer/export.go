package transfer

import (
	"context"
	"fmt"
	"path"
	"sort"

	"goemon/internal/output"
	"goemon/internal/service"
	"goemon/internal/taskfmt"
)

// Result summarizes an export.
type Result struct {
	// Fields are the attributes that differ from the remote task.
	Fields []string

	// Uploaded are the files whose content was sent (empty on dry run).
	Uploaded []string
}

// Changed reports whether the export found any difference.
func (r Result) Changed() bool {
	return len(r.Fields) > 0
}

// pendingUpload is a file whose content the server does not have yet.
type pendingUpload struct {
	name string
	hash string
	path string
}

// Export reads the selected properties from the workspace and sends what
// differs from the remote task. With dryRun the differences are only
// written to the report and the remote task is left untouched.
func (s *Syncer) Export(ctx context.Context, ref service.TaskRef, sel Selection, dryRun bool) (Result, error) {
	if err := sel.Validate(); err != nil {
		return Result{}, err
	}

	current, err := s.svc.GetTask(ctx, ref)
	if err != nil {
		return Result{}, remote("get task", err)
	}

	local := *current
	patch := service.Patch{}

	for _, p := range taskfmt.Properties {
		src := sel.PathFor(p)
		if src == "" {
			continue
		}
		if err := s.exportProperty(current, &local, p, src, dryRun, &patch); err != nil {
			return Result{}, err
		}
	}

	var uploads []pendingUpload
	if dir := sel.FilesDir(); dir != "" {
		uploads, err = s.exportFiles(ctx, current, &local, dir, dryRun, &patch)
		if err != nil {
			return Result{}, err
		}
	}

	res := Result{Fields: patch.Fields}
	if dryRun {
		s.log.Info("finished: check mode", "ref", ref.String(), "changed", patch.Fields)
		return res, nil
	}
	if patch.Empty() {
		s.log.Info("no changes", "ref", ref.String())
		return res, nil
	}

	patch.Task = local
	updated, err := s.svc.PatchTask(ctx, ref, patch)
	if err != nil {
		return Result{}, remote("patch task", err)
	}

	for _, u := range uploads {
		if err := s.upload(ctx, updated, u); err != nil {
			return Result{}, err
		}
		res.Uploaded = append(res.Uploaded, u.name)
	}
	return res, nil
}

func (s *Syncer) exportProperty(current, local *service.Task, p taskfmt.Property, src string, dryRun bool, patch *service.Patch) error {
	data, err := s.ws.ReadFile(src)
	if err != nil {
		return err
	}
	text := string(data)

	oldText, err := taskfmt.Encode(current, p)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err := taskfmt.Decode(local, p, text); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if dryRun {
		if err := output.Text(s.out, p.DefaultPath(), oldText, text); err != nil {
			return err
		}
	}

	newText, err := taskfmt.Encode(local, p)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if newText != oldText {
		for _, f := range p.Fields() {
			patch.Set(f)
		}
	}
	return nil
}

func (s *Syncer) exportFiles(ctx context.Context, current, local *service.Task, dir string, dryRun bool, patch *service.Patch) ([]pendingUpload, error) {
	indexPath := path.Join(dir, taskfmt.FilesIndex)
	data, err := s.ws.ReadFile(indexPath)
	if err != nil {
		return nil, err
	}
	indexText := string(data)

	entries, err := taskfmt.DecodeFiles(indexText)
	if err != nil {
		return nil, err
	}

	remoteByName := make(map[string]service.File, len(current.Files))
	for _, f := range current.Files {
		remoteByName[f.Name] = f
	}

	var files []service.File
	var uploads []pendingUpload
	localByName := make(map[string]service.File, len(entries))
	for _, e := range entries {
		if err := checkName(e.Name); err != nil {
			return nil, err
		}
		src := path.Join(dir, e.Name)
		info, err := s.ws.Inspect(src)
		if err != nil {
			return nil, err
		}

		f, ok := remoteByName[e.Name]
		if ok && f.HashSHA256 == info.HashSHA256 {
			s.log.Info("file properties updated", "name", e.Name)
		} else {
			s.log.Info("new file content", "name", e.Name, "hash", info.HashSHA256)
			f = service.File{
				HashSHA256:   info.HashSHA256,
				Size:         info.Size,
				LastModified: info.LastModified,
			}
			uploads = append(uploads, pendingUpload{name: e.Name, hash: info.HashSHA256, path: src})
		}
		e.Apply(&f)
		files = append(files, f)
		localByName[e.Name] = f
	}

	if dryRun {
		oldIndex, err := taskfmt.EncodeFiles(current.Files)
		if err != nil {
			return nil, err
		}
		if err := output.Text(s.out, taskfmt.FilesIndex, oldIndex, indexText); err != nil {
			return nil, err
		}
		if err := s.reportFiles(ctx, dir, remoteByName, localByName); err != nil {
			return nil, err
		}
	}

	if len(uploads) > 0 || !sameEntries(current.Files, files) {
		local.Files = files
		patch.Set(service.FieldFiles)
	}
	return uploads, nil
}

// reportFiles writes the per-file part of the dry-run report, in name order.
func (s *Syncer) reportFiles(ctx context.Context, dir string, old, local map[string]service.File) error {
	names := make([]string, 0, len(old)+len(local))
	for name := range old {
		names = append(names, name)
	}
	for name := range local {
		if _, ok := old[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		label := path.Join(dir, name)
		rf, inRemote := old[name]
		lf, inLocal := local[name]

		switch {
		case !inRemote:
			if err := output.NewFile(s.out, label); err != nil {
				return err
			}
		case !inLocal:
			if err := output.DeletedFile(s.out, label); err != nil {
				return err
			}
		case rf.HashSHA256 == lf.HashSHA256:
		default:
			oldData, err := s.svc.DownloadFile(ctx, rf)
			if err != nil {
				return remote("download", err)
			}
			newData, err := s.ws.ReadFile(label)
			if err != nil {
				return err
			}
			if err := output.File(s.out, label, oldData, newData); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Syncer) upload(ctx context.Context, updated *service.Task, u pendingUpload) error {
	var target *service.File
	for i := range updated.Files {
		f := &updated.Files[i]
		if f.Name == u.name && f.HashSHA256 == u.hash {
			target = f
			break
		}
	}
	if target == nil {
		return remote("patch task", fmt.Errorf("unexpected result: no entities for %s", u.name))
	}

	r, err := s.ws.OpenFile(u.path)
	if err != nil {
		return err
	}
	defer r.Close()

	s.log.Info("uploading", "name", u.name)
	if err := s.svc.UploadFile(ctx, *target, r); err != nil {
		return remote("upload", err)
	}
	return nil
}

// sameEntries reports whether two file lists have the same index records.
func sameEntries(a, b []service.File) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if taskfmt.EntryOf(a[i]) != taskfmt.EntryOf(b[i]) {
			return false
		}
	}
	return true
}

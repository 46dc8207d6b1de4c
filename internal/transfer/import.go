package transfer

import (
	"context"
	"fmt"
	"path"

	"goemon/internal/service"
	"goemon/internal/taskfmt"
	"goemon/internal/workspace"
)

// Import fetches the task and writes every selected property to the
// workspace. Nothing is written when any target already exists and the
// workspace does not allow overwriting.
func (s *Syncer) Import(ctx context.Context, ref service.TaskRef, sel Selection) error {
	if err := sel.Validate(); err != nil {
		return err
	}

	task, err := s.svc.GetTask(ctx, ref)
	if err != nil {
		return remote("get task", err)
	}

	targets, err := importTargets(task, sel)
	if err != nil {
		return err
	}
	if err := s.ws.CheckWritable(targets...); err != nil {
		return err
	}

	for _, p := range taskfmt.Properties {
		dest := sel.PathFor(p)
		if dest == "" {
			continue
		}
		text, err := taskfmt.Encode(task, p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err := s.ws.WriteFile(dest, []byte(text)); err != nil {
			return err
		}
		s.log.Info("imported property", "property", string(p), "path", dest)
	}

	if dir := sel.FilesDir(); dir != "" {
		return s.importFiles(ctx, task, dir)
	}
	return nil
}

func (s *Syncer) importFiles(ctx context.Context, task *service.Task, dir string) error {
	index, err := taskfmt.EncodeFiles(task.Files)
	if err != nil {
		return fmt.Errorf("%s: %w", taskfmt.FilesIndex, err)
	}
	if err := s.ws.WriteFile(path.Join(dir, taskfmt.FilesIndex), []byte(index)); err != nil {
		return err
	}

	for _, f := range task.Files {
		data, err := s.svc.DownloadFile(ctx, f)
		if err != nil {
			return remote("download", err)
		}
		if f.HashSHA256 != "" && workspace.HashBytes(data) != f.HashSHA256 {
			s.log.Warn("downloaded file does not match its hash", "name", f.Name)
		}
		dest := path.Join(dir, f.Name)
		if err := s.ws.WriteFile(dest, data); err != nil {
			return err
		}
		s.log.Info("imported file", "name", f.Name, "path", dest, "bytes", len(data))
	}
	return nil
}

// importTargets lists every workspace path an import will write.
func importTargets(task *service.Task, sel Selection) ([]string, error) {
	var targets []string
	for _, p := range taskfmt.Properties {
		if dest := sel.PathFor(p); dest != "" && dest != workspace.Stdio {
			targets = append(targets, dest)
		}
	}

	dir := sel.FilesDir()
	if dir == "" {
		return targets, nil
	}
	targets = append(targets, path.Join(dir, taskfmt.FilesIndex))
	for _, f := range task.Files {
		if err := checkName(f.Name); err != nil {
			return nil, err
		}
		targets = append(targets, path.Join(dir, f.Name))
	}
	return targets, nil
}

package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"goemon/internal/commands"
	"goemon/internal/config"
	"goemon/internal/exitcode"
	"goemon/internal/service"
	"goemon/internal/testutil"
)

var owned = service.TaskRef{ID: "abc123"}

// runCommand parses args with the command's flags and runs it against svc.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runCommandWithInput(t, cmd, svc, args, "", quiet)
}

func runCommandWithInput(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, input string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, fs.Args(), strings.NewReader(input), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func newFake() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask(owned, service.Task{
		Title:       "Survey",
		Description: "About\n",
		Script:      "run()\n",
	})
	svc.AddFile(owned, service.File{Name: "data.csv", Type: "text", ImportType: "none"}, []byte("a,b\n"))
	return svc
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "goemon 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "  export   Send local files to a remote task\n", "GOEMON_TOKEN"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help output to contain %q", want)
		}
	}
}

// Tests for url command
func TestURLCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"abc123"}, "https://goemon.cloud/t/abc123\n"},
		{[]string{"--shared", "abc123"}, "https://goemon.cloud/s/abc123\n"},
		{[]string{"https://goemon.cloud/s/xyz"}, "https://goemon.cloud/s/xyz\n"},
	}
	for _, tt := range tests {
		stdout, stderr, code := runCommand(t, &commands.URLCmd{}, nil, tt.args, false)
		if code != exitcode.Success {
			t.Errorf("%v: expected exit code %d, got %d (%s)", tt.args, exitcode.Success, code, stderr)
		}
		if stdout != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.want, stdout)
		}
	}
}

func TestURLCommand_MissingRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.URLCmd{}, nil, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for import command
func TestImportCommand_All(t *testing.T) {
	svc := newFake()
	dir := t.TempDir()

	stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"--all", "-d", dir, "abc123"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if got := readFile(t, filepath.Join(dir, "script.js")); got != "run()\n" {
		t.Errorf("script.js = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "files", "data.csv")); got != "a,b\n" {
		t.Errorf("files/data.csv = %q", got)
	}
}

func TestImportCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ImportCmd{}, newFake(), []string{"--all", "-d", t.TempDir(), "abc123"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestImportCommand_Stdout(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ImportCmd{}, newFake(), []string{"--script", "-", "-d", t.TempDir(), "abc123"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "run()\n" {
		t.Errorf("expected script on stdout, got %q", stdout)
	}
}

func TestImportCommand_NothingSelected(t *testing.T) {
	svc := newFake()
	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"abc123"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: no files specified\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no calls, got %v", svc.Calls)
	}
}

func TestImportCommand_Exists(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "script.js"), "mine\n")

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, newFake(), []string{"--script", "script.js", "-d", dir, "abc123"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: file already exists: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if got := readFile(t, filepath.Join(dir, "script.js")); got != "mine\n" {
		t.Errorf("script.js overwritten: %q", got)
	}
}

func TestImportCommand_Overwrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "script.js"), "mine\n")

	_, _, code := runCommand(t, &commands.ImportCmd{}, newFake(), []string{"--script", "script.js", "--overwrite", "-d", dir, "abc123"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := readFile(t, filepath.Join(dir, "script.js")); got != "run()\n" {
		t.Errorf("script.js = %q", got)
	}
}

func TestImportCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ImportCmd{}, newFake(), []string{"--all", "-d", t.TempDir(), "--shared", "abc123"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: /s/abc123\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestImportCommand_Unauthorized(t *testing.T) {
	svc := newFake()
	svc.GetTaskErr = service.ErrUnauthorized

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"--all", "-d", t.TempDir(), "abc123"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for export command
func TestExportCommand_NoChanges(t *testing.T) {
	svc := newFake()
	dir := t.TempDir()
	runCommand(t, &commands.ImportCmd{}, svc, []string{"--all", "-d", dir, "abc123"}, true)

	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, svc, []string{"--all", "-d", dir, "abc123"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "no changes\n" {
		t.Errorf("expected no changes, got %q", stdout)
	}
	if svc.Writes() != 0 {
		t.Errorf("expected no writes, got %v", svc.Calls)
	}
}

func TestExportCommand_Changed(t *testing.T) {
	svc := newFake()
	dir := t.TempDir()
	runCommand(t, &commands.ImportCmd{}, svc, []string{"--all", "-d", dir, "abc123"}, true)
	writeFile(t, filepath.Join(dir, "script.js"), "run(2)\n")

	stdout, _, code := runCommand(t, &commands.ExportCmd{}, svc, []string{"--all", "-d", dir, "abc123"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if got := svc.Task(owned).Script; got != "run(2)\n" {
		t.Errorf("remote script = %q", got)
	}
}

func TestExportCommand_DryRun(t *testing.T) {
	svc := newFake()
	dir := t.TempDir()
	runCommand(t, &commands.ImportCmd{}, svc, []string{"--all", "-d", dir, "abc123"}, true)
	writeFile(t, filepath.Join(dir, "description.md"), "About\nMore\n")
	writeFile(t, filepath.Join(dir, "script.js"), "run(2)\n")

	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, svc, []string{"--all", "--dry-run", "-d", dir, "abc123"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	testutil.GoldenString(t, "export_dry_run", stdout)
	if svc.Writes() != 0 {
		t.Errorf("expected no writes, got %v", svc.Calls)
	}
}

func TestExportCommand_Stdin(t *testing.T) {
	svc := newFake()

	_, stderr, code := runCommandWithInput(t, &commands.ExportCmd{}, svc, []string{"--description", "-", "-d", t.TempDir(), "abc123"}, "From stdin\n", false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if got := svc.Task(owned).Description; got != "From stdin\n" {
		t.Errorf("remote description = %q", got)
	}
}

func TestExportCommand_InvalidParam(t *testing.T) {
	svc := newFake()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "param.yml"), "- value: x\n")

	_, stderr, code := runCommand(t, &commands.ExportCmd{}, svc, []string{"--param", "param.yml", "-d", dir, "abc123"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Writes() != 0 {
		t.Errorf("expected no writes, got %v", svc.Calls)
	}
}

func TestExportCommand_FilesStdio(t *testing.T) {
	svc := newFake()

	_, _, code := runCommand(t, &commands.ExportCmd{}, svc, []string{"--files", "-", "abc123"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no calls, got %v", svc.Calls)
	}
}

func TestImportCommand_ExplicitPathsOutsideBase(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	base := filepath.Join(root, "base")
	abs := filepath.Join(other, "script.js")

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, newFake(),
		[]string{"--script", abs, "--description", "../description.md", "-d", base, "abc123"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if got := readFile(t, abs); got != "run()\n" {
		t.Errorf("%s = %q", abs, got)
	}
	if got := readFile(t, filepath.Join(root, "description.md")); got != "About\n" {
		t.Errorf("description.md = %q", got)
	}
	if _, err := os.Stat(filepath.Join(base, other)); !os.IsNotExist(err) {
		t.Errorf("absolute path was written below the base directory")
	}
}

func TestExportCommand_ExplicitPathOutsideBase(t *testing.T) {
	svc := newFake()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "script.js"), "run(3)\n")

	_, stderr, code := runCommand(t, &commands.ExportCmd{}, svc,
		[]string{"--script", "../script.js", "-d", filepath.Join(root, "base"), "abc123"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if got := svc.Task(owned).Script; got != "run(3)\n" {
		t.Errorf("remote script = %q", got)
	}
}

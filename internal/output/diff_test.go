package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_Equal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, "script.js", "a\nb\n", "a\nb\n"))
	assert.Empty(t, buf.String())
}

func TestText_SingleLineChange(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, "script.js", "print(1)\n", "print(2)\n"))

	want := "--- a/script.js\n" +
		"+++ b/script.js\n" +
		"@@ -1 +1 @@\n" +
		"-print(1)\n" +
		"+print(2)\n"
	assert.Equal(t, want, buf.String())
}

func TestText_FromEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, "description.md", "", "hello\n"))

	want := "--- a/description.md\n" +
		"+++ b/description.md\n" +
		"@@ -0,0 +1 @@\n" +
		"+hello\n"
	assert.Equal(t, want, buf.String())
}

func TestText_MissingTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, "script.js", "x\n", "x"))

	want := "--- a/script.js\n" +
		"+++ b/script.js\n" +
		"@@ -1 +1 @@\n" +
		"-x\n" +
		"+x\n" +
		"\\ No newline at end of file\n"
	assert.Equal(t, want, buf.String())
}

func TestFile_Binary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, File(&buf, "files/a.bin", []byte{0xff, 0x00}, []byte{0xfe}))
	assert.Equal(t, "Binary files changed - a/files/a.bin, b/files/a.bin\n", buf.String())

	buf.Reset()
	require.NoError(t, File(&buf, "files/a.bin", []byte{0xff}, []byte{0xff}))
	assert.Empty(t, buf.String())
}

func TestNewAndDeleted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFile(&buf, "files/n.txt"))
	require.NoError(t, DeletedFile(&buf, "files/d.txt"))
	assert.Equal(t, "New file - b/files/n.txt\nDeleted file - a/files/d.txt\n", buf.String())
}

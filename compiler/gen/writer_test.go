package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterWritesAndFormats(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false, 2)

	tasks := []fileTask{{
		name:  "sample.go",
		phase: "model",
		render: func() ([]byte, error) {
			// Badly formatted on purpose; goimports must clean it up.
			return []byte("package garden\nvar   X=1\n"), nil
		},
	}}
	require.NoError(t, w.writeAll(context.Background(), tasks))

	out, err := os.ReadFile(filepath.Join(dir, "sample.go"))
	require.NoError(t, err)
	assert.Equal(t, "package garden\n\nvar X = 1\n", string(out))

	m := w.Metrics()
	assert.Equal(t, 1, m.FilesWritten)
	assert.Equal(t, 0, m.FilesSkipped)
	assert.Positive(t, m.TotalBytes)
}

func TestWriterSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(existing, []byte("package garden // hand edited\n"), 0o644))

	w := NewWriter(dir, false, 1)
	tasks := []fileTask{{
		name:   "sample.go",
		phase:  "model",
		render: func() ([]byte, error) { return []byte("package garden\n"), nil },
	}}
	require.NoError(t, w.writeAll(context.Background(), tasks))

	out, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(out), "hand edited", "existing file untouched")
	assert.Equal(t, 1, w.Metrics().FilesSkipped)
}

func TestWriterOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(existing, []byte("package garden // hand edited\n"), 0o644))

	w := NewWriter(dir, true, 1)
	tasks := []fileTask{{
		name:   "sample.go",
		phase:  "model",
		render: func() ([]byte, error) { return []byte("package garden\n\nvar X = 1\n"), nil },
	}}
	require.NoError(t, w.writeAll(context.Background(), tasks))

	out, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hand edited")
}

func TestWriterFormatErrorKeepsDebugOutput(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false, 1)
	tasks := []fileTask{{
		name:   "broken.go",
		phase:  "form",
		render: func() ([]byte, error) { return []byte("package garden\nfunc {"), nil },
	}}

	err := w.writeAll(context.Background(), tasks)
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))

	_, statErr := os.Stat(filepath.Join(dir, "broken.go.error"))
	assert.NoError(t, statErr, "unformatted output kept for debugging")
	_, statErr = os.Stat(filepath.Join(dir, "broken.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriterNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false, 1)
	tasks := []fileTask{{
		name:   filepath.Join("forms", "user_form.go"),
		phase:  "form",
		render: func() ([]byte, error) { return []byte("package forms\n"), nil },
	}}
	require.NoError(t, w.writeAll(context.Background(), tasks))

	_, err := os.Stat(filepath.Join(dir, "forms", "user_form.go"))
	assert.NoError(t, err)
}

func TestWriterContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(t.TempDir(), false, 1)
	var tasks []fileTask
	for i := 0; i < 64; i++ {
		tasks = append(tasks, fileTask{
			name:   filepath.Join("n", "f"+string(rune('a'+i%26))+".go"),
			phase:  "model",
			render: func() ([]byte, error) { return []byte("package n\n"), nil },
		})
	}
	err := w.writeAll(ctx, tasks)
	require.ErrorIs(t, err, context.Canceled)
}

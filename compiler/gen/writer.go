package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer renders file tasks in parallel, formats them with goimports, and
// writes them under the output directory. Files that already exist are
// skipped unless overwrite is enabled: generated code is a starting point
// for hand edits, not a build artifact.
type Writer struct {
	outDir    string
	overwrite bool
	workers   int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks what a generation run wrote.
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
}

// fileTask is a single file to generate: a relative output path and a
// render function producing unformatted source.
type fileTask struct {
	name   string
	phase  string
	render func() ([]byte, error)
}

// NewWriter creates a writer for the given output directory.
func NewWriter(outDir string, overwrite bool, workers int) *Writer {
	if workers < 1 {
		workers = 1
	}
	return &Writer{outDir: outDir, overwrite: overwrite, workers: workers}
}

// Metrics returns a copy of the run metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// writeAll renders and writes every task in parallel.
func (w *Writer) writeAll(ctx context.Context, tasks []fileTask) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, task := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(task)
			}
		})
	}
	return eg.Wait()
}

// writeFile renders, formats, and writes a single task.
func (w *Writer) writeFile(task fileTask) error {
	fullPath := filepath.Join(w.outDir, task.name)
	if !w.overwrite {
		if _, err := os.Stat(fullPath); err == nil {
			w.mu.Lock()
			w.metrics.FilesSkipped++
			w.mu.Unlock()
			return nil
		}
	}

	src, err := task.render()
	if err != nil {
		return NewGenerationError(task.phase, task.name, "render failed", err)
	}

	// goimports both formats and prunes unused imports from the output.
	formatted, err := imports.Process(fullPath, src, nil)
	if err != nil {
		// Keep the unformatted output next to the target for debugging.
		debugPath := fullPath + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, src, 0o644)
		return NewGenerationError(task.phase, task.name,
			fmt.Sprintf("format failed (unformatted output in %s)", debugPath), err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError(task.phase, task.name, "create directory", err)
	}
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return NewGenerationError(task.phase, task.name, "write file", err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()
	return nil
}

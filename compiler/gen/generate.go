package gen

import (
	"bytes"
	"context"
	"path"
	"text/template"

	"github.com/syssam/garden/schema"
)

// Report summarizes one generation run.
type Report struct {
	// RunID identifies the run in the snapshot.
	RunID string
	// Models and Forms count the definitions in the graph, whether or not
	// their files were written this run.
	Models int
	Forms  int
	// Written and Skipped count files. Skipped files already existed.
	Written int
	Skipped int
	// TotalBytes is the formatted size of everything written.
	TotalBytes int64
	// Warnings holds non-fatal naming problems from graph building.
	Warnings []string
	// SchemaDiff lists changes since the previous run's snapshot.
	// Nil on the first run.
	SchemaDiff *Diff
}

// Generate runs the full pipeline over an introspected database: build the
// graph, render one model file per table and one form file per non-join
// table, write everything that does not already exist, and persist the
// schema snapshot.
func Generate(ctx context.Context, c *Config, db *schema.Database) (*Report, error) {
	graph, err := NewGraph(c, db)
	if err != nil {
		return nil, err
	}
	return graph.Generate(ctx)
}

// Generate renders and writes the graph.
func (g *Graph) Generate(ctx context.Context) (*Report, error) {
	for _, hook := range g.Hooks {
		if err := hook(g); err != nil {
			return nil, NewGenerationError("hook", "", "hook rejected the graph", err)
		}
	}
	tmpl, err := loadTemplates(g.TemplateDir)
	if err != nil {
		return nil, err
	}

	report := &Report{Warnings: g.Warnings}
	var tasks []fileTask
	for _, node := range g.Nodes {
		tasks = append(tasks, modelTask(node))
		report.Models++
	}
	if len(g.Nodes) > 0 {
		tasks = append(tasks, templateTask(tmpl, "support", g.formPath("forms.go"), g))
	}
	for _, node := range g.Nodes {
		if node.JoinTable() {
			continue
		}
		tasks = append(tasks, templateTask(tmpl, "form", g.formPath(node.FormFileName()), node))
		report.Forms++
	}

	w := NewWriter(g.Target, g.Overwrite, g.workers())
	if err := w.writeAll(ctx, tasks); err != nil {
		return nil, err
	}
	metrics := w.Metrics()
	report.Written = metrics.FilesWritten
	report.Skipped = metrics.FilesSkipped
	report.TotalBytes = metrics.TotalBytes

	curr := takeSnapshot(g.Database)
	report.RunID = curr.RunID
	prev, err := LoadSnapshot(g.Target)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		report.SchemaDiff = curr.DiffFrom(prev)
	}
	if err := curr.Save(g.Target); err != nil {
		return nil, err
	}
	return report, nil
}

// formPath places a file inside the forms subpackage directory.
func (g *Graph) formPath(name string) string {
	return path.Join(g.FormPackageName(), name)
}

// modelTask renders a node's model file with jennifer.
func modelTask(node *Type) fileTask {
	return fileTask{
		name:  node.FileName(),
		phase: "model",
		render: func() ([]byte, error) {
			var buf bytes.Buffer
			if err := node.ModelFile().Render(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

// templateTask renders the named template with the given data.
func templateTask(tmpl *template.Template, name, file string, data any) fileTask {
	return fileTask{
		name:  file,
		phase: name,
		render: func() ([]byte, error) {
			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

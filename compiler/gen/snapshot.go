package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/garden/schema"
)

// SnapshotFile is the schema snapshot path relative to the target directory.
const SnapshotFile = ".garden/schema.snap"

// Snapshot is the persisted record of the schema a generation run saw.
// Subsequent runs diff against it to report what changed in the database
// since the code was generated.
type Snapshot struct {
	// RunID identifies the generation run that wrote the snapshot.
	RunID string `msgpack:"run_id"`
	// Dialect the schema was introspected with.
	Dialect string `msgpack:"dialect"`
	// CreatedAt is the time the snapshot was taken.
	CreatedAt time.Time `msgpack:"created_at"`
	// Tables holds the table shapes, sorted by name.
	Tables []TableSnapshot `msgpack:"tables"`
}

// TableSnapshot records one table's shape.
type TableSnapshot struct {
	Name    string           `msgpack:"name"`
	Columns []ColumnSnapshot `msgpack:"columns"`
}

// ColumnSnapshot records what the generator derives code from: the raw
// declared type and nullability.
type ColumnSnapshot struct {
	Name     string `msgpack:"name"`
	Type     string `msgpack:"type"`
	Nullable bool   `msgpack:"nullable,omitempty"`
}

// takeSnapshot records the shape of an introspected database.
func takeSnapshot(db *schema.Database) *Snapshot {
	s := &Snapshot{
		RunID:     uuid.NewString(),
		Dialect:   db.Dialect,
		CreatedAt: time.Now().UTC(),
	}
	for _, t := range db.Tables {
		ts := TableSnapshot{Name: t.Name}
		for _, c := range t.Columns {
			ts.Columns = append(ts.Columns, ColumnSnapshot{
				Name:     c.Name,
				Type:     c.Type.Raw,
				Nullable: c.Nullable,
			})
		}
		s.Tables = append(s.Tables, ts)
	}
	sort.Slice(s.Tables, func(i, j int) bool { return s.Tables[i].Name < s.Tables[j].Name })
	return s
}

// Save writes the snapshot under the target directory.
func (s *Snapshot) Save(target string) error {
	path := filepath.Join(target, SnapshotFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("snapshot", path, "create directory", err)
	}
	data, err := msgpack.Marshal(s)
	if err != nil {
		return NewGenerationError("snapshot", path, "encode", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewGenerationError("snapshot", path, "write", err)
	}
	return nil
}

// LoadSnapshot reads the snapshot of a previous run. A missing file is not
// an error: it returns (nil, nil) on the first run.
func LoadSnapshot(target string) (*Snapshot, error) {
	path := filepath.Join(target, SnapshotFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("garden: read snapshot %s: %w", path, err)
	}
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("garden: decode snapshot %s: %w", path, err)
	}
	return &s, nil
}

// Diff lists schema changes between two snapshots, in "table" or
// "table.column" form.
type Diff struct {
	AddedTables    []string
	RemovedTables  []string
	AddedColumns   []string
	DroppedColumns []string
	ChangedColumns []string
}

// Empty reports whether nothing changed.
func (d *Diff) Empty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 &&
		len(d.AddedColumns) == 0 && len(d.DroppedColumns) == 0 && len(d.ChangedColumns) == 0
}

// DiffFrom compares the snapshot against a previous one.
func (s *Snapshot) DiffFrom(prev *Snapshot) *Diff {
	d := &Diff{}
	prevTables := make(map[string]TableSnapshot, len(prev.Tables))
	for _, t := range prev.Tables {
		prevTables[t.Name] = t
	}
	currTables := make(map[string]TableSnapshot, len(s.Tables))
	for _, t := range s.Tables {
		currTables[t.Name] = t
	}
	for _, t := range s.Tables {
		pt, ok := prevTables[t.Name]
		if !ok {
			d.AddedTables = append(d.AddedTables, t.Name)
			continue
		}
		diffColumns(d, t, pt)
	}
	for _, t := range prev.Tables {
		if _, ok := currTables[t.Name]; !ok {
			d.RemovedTables = append(d.RemovedTables, t.Name)
		}
	}
	return d
}

func diffColumns(d *Diff, curr, prev TableSnapshot) {
	prevCols := make(map[string]ColumnSnapshot, len(prev.Columns))
	for _, c := range prev.Columns {
		prevCols[c.Name] = c
	}
	currCols := make(map[string]ColumnSnapshot, len(curr.Columns))
	for _, c := range curr.Columns {
		currCols[c.Name] = c
	}
	for _, c := range curr.Columns {
		pc, ok := prevCols[c.Name]
		switch {
		case !ok:
			d.AddedColumns = append(d.AddedColumns, curr.Name+"."+c.Name)
		case pc.Type != c.Type || pc.Nullable != c.Nullable:
			d.ChangedColumns = append(d.ChangedColumns, curr.Name+"."+c.Name)
		}
	}
	for _, c := range prev.Columns {
		if _, ok := currCols[c.Name]; !ok {
			d.DroppedColumns = append(d.DroppedColumns, curr.Name+"."+c.Name)
		}
	}
}

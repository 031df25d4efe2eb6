package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/garden/compiler/gen"
	"github.com/syssam/garden/schema"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"config write", fsnotify.Event{Name: "garden.yaml", Op: fsnotify.Write}, true},
		{"config rename", fsnotify.Event{Name: "./garden.yaml", Op: fsnotify.Rename}, true},
		{"template create", fsnotify.Event{Name: "templates/form.tmpl", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "garden.yaml", Op: fsnotify.Chmod}, false},
		{"unrelated file", fsnotify.Event{Name: "main.go", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

func TestColumnFlags(t *testing.T) {
	assert.Equal(t, "pk auto ", columnFlags(&schema.Column{PrimaryKey: true, AutoIncrement: true}))
	assert.Equal(t, "unique null ", columnFlags(&schema.Column{Unique: true, Nullable: true}))
	assert.Equal(t, "", columnFlags(&schema.Column{}))
}

func TestGenerateEmptyDatabaseWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out")
	project := fmt.Sprintf("dsn: %s\npackage: example.com/app/garden\ntarget: %s\n",
		filepath.Join(dir, "app.db"), target)
	path := filepath.Join(dir, "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(project), 0o644))

	prevCfg, prevLogger := cfgFile, logger
	cfgFile, logger = path, zap.NewNop()
	defer func() { cfgFile, logger = prevCfg, prevLogger }()

	require.NoError(t, generateOnce(context.Background()))

	// No tables, no generated files, but the snapshot must exist so the
	// next run can report what appeared.
	_, err := os.Stat(filepath.Join(target, gen.SnapshotFile))
	require.NoError(t, err)

	snap, err := gen.LoadSnapshot(target)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Tables)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".garden", entries[0].Name())
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "inspect", "generate", "version"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/garden/compiler/gen"
)

var (
	flagOverwrite bool
	flagWatch     bool
)

// generateCmd runs the full pipeline: introspect, render, write.
var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate model and form files from the database",
	Args:    cobra.NoArgs,
	RunE:    runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "replace generated files that already exist")
	generateCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "regenerate when the project file or templates change")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := generateOnce(ctx); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watch(ctx)
}

func generateOnce(ctx context.Context) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if flagOverwrite {
		c.Overwrite = true
	}

	database, err := introspect(ctx, c)
	if err != nil {
		return err
	}
	// An empty database still runs the pipeline so the snapshot is written
	// and the next run can report the tables that appeared.
	if len(database.Tables) == 0 {
		logger.Warn("database has no tables; writing only the schema snapshot")
	}

	cfg, err := gen.NewConfig(c.GenOptions()...)
	if err != nil {
		return err
	}
	report, err := gen.Generate(ctx, cfg, database)
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		logger.Warn(w)
	}
	if d := report.SchemaDiff; d != nil && !d.Empty() {
		logger.Info("schema changed since last run",
			zap.Strings("added_tables", d.AddedTables),
			zap.Strings("removed_tables", d.RemovedTables),
			zap.Strings("added_columns", d.AddedColumns),
			zap.Strings("dropped_columns", d.DroppedColumns),
			zap.Strings("changed_columns", d.ChangedColumns),
		)
	}
	logger.Info("generation finished",
		zap.String("run_id", report.RunID),
		zap.Int("models", report.Models),
		zap.Int("forms", report.Forms),
		zap.Int("written", report.Written),
		zap.Int("skipped", report.Skipped),
		zap.Int64("bytes", report.TotalBytes),
	)
	return nil
}

// watchDebounce coalesces editor save bursts into one regeneration.
const watchDebounce = 500 * time.Millisecond

// watch regenerates whenever the project file or the template directory
// changes, until the context is cancelled.
func watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that write via rename
	// replace the inode and a file watch would go stale.
	dir := filepath.Dir(cfgFile)
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	if c, err := loadConfig(); err == nil && c.TemplateDir != "" {
		if err := watcher.Add(c.TemplateDir); err != nil {
			logger.Warn("cannot watch template directory", zap.String("dir", c.TemplateDir), zap.Error(err))
		}
	}
	logger.Info("watching for changes", zap.String("config", cfgFile))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("change detected", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				fire = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-fire:
			timer, fire = nil, nil
			if err := generateOnce(ctx); err != nil {
				logger.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}

// relevant reports whether a watch event should trigger regeneration.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	return base == filepath.Base(cfgFile) || filepath.Ext(base) == ".tmpl"
}

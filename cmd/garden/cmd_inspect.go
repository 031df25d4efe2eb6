package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/garden/compiler/inspect"
	"github.com/syssam/garden/compiler/load"
	"github.com/syssam/garden/schema"
)

// inspectCmd prints the introspected schema without generating anything.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Connect to the database and print its tables",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	database, err := introspect(ctx, c)
	if err != nil {
		return err
	}
	if len(database.Tables) == 0 {
		logger.Warn("database has no tables", zap.String("dialect", c.Dialect))
		return nil
	}

	for _, t := range database.Tables {
		fmt.Printf("%s (%d columns)\n", t.Name, len(t.Columns))
		for _, col := range t.Columns {
			fmt.Printf("  %-24s %-16s %s\n", col.Name, col.Type.Raw, columnFlags(col))
		}
		fmt.Println()
	}
	return nil
}

// introspect opens the configured database and reads its tables.
func introspect(ctx context.Context, c *load.Config) (*schema.Database, error) {
	logger.Info("connecting", zap.String("dialect", c.Dialect))
	db, err := inspect.Open(ctx, c.Dialect, c.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var opts []inspect.Option
	if c.Schema != "" {
		opts = append(opts, inspect.WithSchema(c.Schema))
	}
	database, err := inspect.Database(ctx, c.Dialect, db, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("introspected database", zap.Int("tables", len(database.Tables)))
	return database, nil
}

func columnFlags(col *schema.Column) string {
	var flags string
	if col.PrimaryKey {
		flags += "pk "
	}
	if col.AutoIncrement {
		flags += "auto "
	}
	if col.Unique {
		flags += "unique "
	}
	if col.Nullable {
		flags += "null "
	}
	return flags
}

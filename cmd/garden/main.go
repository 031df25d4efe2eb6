// Package main implements the garden command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/garden/compiler/load"
)

// version is overridden at build time with -ldflags.
var version = "devel"

var (
	cfgFile string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "garden",
	Short: "garden grows model and form code from a live database",
	Long: `garden connects to an existing database, reads its tables, and writes
one model file and one form definition per table into your project.

Generated files are starting points, not artifacts: garden never
overwrites a file that already exists, so edit them freely.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the garden version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("garden %s\n", version)
	},
}

// loadConfig reads the project file named by --config.
func loadConfig() (*load.Config, error) {
	c, err := load.FromFile(cfgFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded project file",
		zap.String("path", cfgFile),
		zap.String("dialect", c.Dialect),
		zap.String("target", c.Target),
	)
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", load.DefaultFile, "path to the project file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "garden: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/garden/compiler/load"
)

// initCmd writes a starter project file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter garden.yaml in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil {
		return fmt.Errorf("%s already exists; remove it first or pass --config", cfgFile)
	}
	if err := os.WriteFile(cfgFile, []byte(load.Starter), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cfgFile, err)
	}
	logger.Info("wrote project file", zap.String("path", cfgFile))
	fmt.Printf("Created %s. Edit the dsn and package values, then run `garden generate`.\n", cfgFile)
	return nil
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/realias/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "realias",
	Short: "A Cli tool for rewriting aliased imports in source trees.",
	Long: `Realias scans source trees for import statements whose path starts with
a configured alias ("@ui/button") and rewrites them to the real location
("/src/components/button.js"), normalizing the imported extension on the way.
It ships with a watch mode for development plus a couple of small text
utilities from the same toolbox.`,
}

var logfile string
var verbose bool

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the persistent logging flags. Commands call it at the
// top of their RunE before doing anything else.
func setupLogging() error {
	logger.SetVerbose(verbose)
	if logfile == "" {
		return nil
	}
	f, err := os.OpenFile(logfile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open logfile %s: %w", logfile, err)
	}
	logger.AddMirror(f)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

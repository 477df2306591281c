/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/realias/core/config"
	"github.com/tristendillon/realias/core/logger"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter realias.yaml",
	Long:  `Creates a realias.yaml with the default settings, ready to hold your alias mappings.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(path); err == nil {
			if !force {
				fmt.Printf("%s already exists. Use --force to overwrite.\n", path)
				return
			}
			logger.Debug("%s already exists. Overwriting.", path)
		}
		os.MkdirAll(dir, os.ModePerm)
		cfg := config.Default()
		if err := cfg.Save(path); err != nil {
			fmt.Printf("Failed to write config: %v\n", err)
			return
		}
		fmt.Printf("Successfully created %s\n", path)

		fmt.Printf("Next Steps:\n")
		fmt.Printf("  - add your mappings under the aliases key\n")
		fmt.Printf("  - realias rewrite --dry-run\n")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}

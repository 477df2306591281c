/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/realias/core/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of Realias",
	Long:  `Displays the version of Realias.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Realias %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

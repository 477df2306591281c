/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/repeat"
)

var (
	repeatLevel string
	repeatCount int
)

var repeatCmd = &cobra.Command{
	Use:   "repeat",
	Short: "Repeat stdin text at line or block level",
	Long: `Reads text from stdin and repeats it the given number of times, either
line by line or block by block. A block is a run of non-blank lines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		logger.Debug("repeat called")

		level, err := repeat.ParseLevel(repeatLevel)
		if err != nil {
			return err
		}

		fmt.Println("Repetition level:", level)
		fmt.Println("Repetition count:", repeatCount)
		fmt.Printf("Enter sentences, press %s on an empty line to signal the end:\n", eofKeystroke())

		var lines []string
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines = append(lines, strings.TrimSpace(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if len(lines) == 0 {
			return fmt.Errorf("no input provided")
		}

		repeated, err := repeat.Repeat(lines, level, repeatCount)
		if err != nil {
			return err
		}

		fmt.Println(banner(" Result ", 60))
		for _, line := range repeated {
			fmt.Println(line)
		}
		return nil
	},
}

// eofKeystroke names the terminal EOF chord for the current platform.
func eofKeystroke() string {
	if runtime.GOOS == "windows" {
		return "Ctrl+Z"
	}
	return "Ctrl+D"
}

// banner centers title in a line of = signs, width characters wide.
func banner(title string, width int) string {
	pad := width - len(title)
	if pad <= 0 {
		return title
	}
	left := pad / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", pad-left)
}

func init() {
	rootCmd.AddCommand(repeatCmd)

	repeatCmd.Flags().StringVarP(&repeatLevel, "level", "l", "line", "Repetition level: line or block")
	repeatCmd.Flags().IntVarP(&repeatCount, "count", "c", 2, "Number of times to repeat")
}

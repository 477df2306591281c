/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/shared"
	"github.com/tristendillon/realias/core/slug"
)

var normalizeApply bool

// audioExts are the podcast file extensions, matched case-insensitively.
var audioExts = []string{".mp3", ".m4a"}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [dir]",
	Short: "Normalize podcast file names to pod___YYYYMMDD_description",
	Long: `Walks a directory of podcast audio files and reports how each name maps
onto the pod___YYYYMMDD_description form. The default run only reports;
renames happen with --apply.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		logger.Debug("normalize called")

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		stat, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("failed to open directory %s: %w", root, err)
		}
		if !stat.IsDir() {
			return fmt.Errorf("%s is not a directory", root)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := normalizeDir(ctx, root); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to normalize %s: %w", root, err)
		}
		return nil
	},
}

// normalizeDir reports every audio file in dir, then recurses into its
// sub-folders. Files come first so a folder's own episodes are listed
// together before any nested show.
func normalizeDir(ctx context.Context, dir string) error {
	fmt.Printf("Looking into %q:\n", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var subdirs []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, entry.Name())
		stat, err := os.Stat(path)
		if err != nil {
			// broken symlink or the like
			logger.Debug("Skipping %s: %v", path, err)
			continue
		}
		switch {
		case stat.IsDir():
			subdirs = append(subdirs, path)
		case stat.Mode().IsRegular():
			if isAudioFile(entry.Name()) {
				normalizeFile(path)
			}
		default:
			logger.Warn("Unknown file system item: %s", path)
		}
	}

	for _, sub := range subdirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := normalizeDir(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// normalizeFile prints one verdict line for path, renaming when --apply is
// set.
func normalizeFile(path string) {
	base := filepath.Base(path)
	ext := shared.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	newStem, errs := slug.Normalize(stem)
	switch {
	case newStem == "":
		fmt.Printf("\t🞩 %s: %s\n", stem, errs)
	case newStem == stem:
		fmt.Printf("\t✔ %s\n", stem)
	default:
		if normalizeApply {
			newPath := filepath.Join(filepath.Dir(path), newStem+ext)
			if err := os.Rename(path, newPath); err != nil {
				logger.Error("Failed to rename %s: %v", path, err)
				return
			}
		}
		fmt.Printf("\t↷ %s ⇒ %s\n", stem, newStem)
	}
}

// isAudioFile matches on the name's extension; a file literally named
// ".mp3" has none and is not audio.
func isAudioFile(name string) bool {
	ext := strings.ToLower(shared.Ext(name))
	for _, audioExt := range audioExts {
		if ext == audioExt {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().BoolVar(&normalizeApply, "apply", false, "Rename files instead of only reporting")
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tristendillon/realias/core/alias"
	"github.com/tristendillon/realias/core/cache"
	"github.com/tristendillon/realias/core/config"
	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/models"
	"github.com/tristendillon/realias/core/runner"
	"github.com/tristendillon/realias/core/watcher"
	"golang.org/x/term"
)

var (
	rewriteAliases   []string
	rewriteExts      string
	rewriteNoSubdirs bool
	rewriteYes       bool
	rewriteDryRun    bool
	rewriteWatch     bool
	rewriteNoCache   bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [dir]",
	Short: "Rewrite aliased import paths under a directory",
	Long: `Scans a directory for import statements whose path starts with a
configured alias and rewrites them to the replacement path, normalizing
the imported file's extension. Aliases come from realias.yaml and from
repeated --alias flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		logger.Debug("rewrite called")

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		pairs := append(cfg.AliasPairs(), rewriteAliases...)
		table, err := alias.Build(pairs)
		if err != nil {
			return fmt.Errorf("failed to build alias table: %w", err)
		}
		if table.Len() == 0 {
			return fmt.Errorf("no aliases configured: pass --alias or add them to %s", config.FileName)
		}

		opts := runner.Options{
			Extensions:      extensionsFromFlag(cfg),
			NativeExt:       cfg.NativeExt,
			PassThroughExts: cfg.PassThroughExts,
			Exclude:         cfg.Exclude,
			Recursive:       cfg.Recursive && !rewriteNoSubdirs,
			DryRun:          rewriteDryRun,
			ReportLevel:     logger.INFO,
		}
		r := runner.NewRunner(table, opts)

		var scans *cache.ScanCache
		if cfg.Cache.Enabled && !rewriteNoCache {
			scans = cache.NewScanCache(r.CacheKey(), nil)
			if err := scans.LoadDisk(); err != nil {
				logger.Debug("Scan cache unavailable: %v", err)
			}
			r.SetScanCache(scans)
		}

		printPlan(root, table, opts)
		if !rewriteYes && !rewriteDryRun {
			ok, err := confirm()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Operation cancelled by user.")
				return nil
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if rewriteWatch {
			return watchAndRewrite(ctx, r, root, cfg, scans)
		}

		summary, err := r.Run(ctx, root)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println("Operation cancelled by user.")
				return nil
			}
			return fmt.Errorf("failed to rewrite %s: %w", root, err)
		}
		persistScans(scans)
		printSummary(summary)
		return nil
	},
}

// extensionsFromFlag resolves the extension list: the --exts flag wins,
// otherwise the config's list applies.
func extensionsFromFlag(cfg *config.Config) []string {
	if strings.TrimSpace(rewriteExts) == "" {
		return cfg.Extensions
	}
	return strings.Fields(rewriteExts)
}

// printPlan echoes what is about to happen before anything is touched.
func printPlan(root string, table *alias.Table, opts runner.Options) {
	if opts.Recursive {
		fmt.Printf("Directory: %s (sub-folders included)\n", root)
	} else {
		fmt.Printf("Directory: %s (no sub-folders)\n", root)
	}
	fmt.Printf("Looking for files with extensions: %s\n", strings.Join(opts.Extensions, ", "))
	fmt.Println("Replacements:")
	for _, e := range table.Entries() {
		fmt.Printf("\t%s -> %s\n", e.Alias, e.Replacement)
	}
	if opts.DryRun {
		fmt.Println("Dry run: no files will be modified.")
	}
}

// confirm asks for a Y before touching files. A piped stdin cannot answer,
// so non-interactive callers must pass --yes instead.
func confirm() (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal: pass --yes to apply changes")
	}
	fmt.Print("Enter Y to apply changes: ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

func printSummary(summary *models.RunSummary) {
	fmt.Printf("Done: %d scanned, %d changed, %d skipped, %d failed\n",
		summary.Scanned, summary.Changed, summary.Skipped, summary.Failed)
}

// persistScans writes the scan cache back to disk. Dry runs never persist,
// so a later real run still visits everything a dry run flagged.
func persistScans(scans *cache.ScanCache) {
	if scans == nil || rewriteDryRun {
		return
	}
	if err := scans.SaveDisk(); err != nil {
		logger.Debug("Failed to persist scan cache: %v", err)
	}
}

// watchAndRewrite runs one pass, then keeps rewriting on file changes until
// the context is cancelled.
func watchAndRewrite(ctx context.Context, r *runner.Runner, root string, cfg *config.Config, scans *cache.ScanCache) error {
	fw, err := watcher.NewFileWatcher(root, cfg.Exclude, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if scans != nil {
		fw.SetScanCache(scans)
	}

	rewritePass := func() error {
		summary, err := r.Run(ctx, root)
		if err != nil {
			return err
		}
		if summary.Changed > 0 {
			printSummary(summary)
		}
		return nil
	}

	fw.FileWatcher.AddOnStartFunc(func() error {
		if err := rewritePass(); err != nil {
			return err
		}
		logger.Info("Watching %s for changes...", root)
		return nil
	})
	fw.FileWatcher.AddOnChangeFunc(rewritePass)
	fw.FileWatcher.AddOnCloseFunc(func() error {
		persistScans(scans)
		return nil
	})

	return fw.Watch(ctx)
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringArrayVar(&rewriteAliases, "alias", nil, `Alias mapping as "alias replacement" (repeatable)`)
	rewriteCmd.Flags().StringVar(&rewriteExts, "exts", "", `Space-separated extensions to scan (overrides config)`)
	rewriteCmd.Flags().BoolVar(&rewriteNoSubdirs, "no-subdirs", false, "Do not descend into sub-folders")
	rewriteCmd.Flags().BoolVarP(&rewriteYes, "yes", "y", false, "Apply changes without asking")
	rewriteCmd.Flags().BoolVar(&rewriteDryRun, "dry-run", false, "Report changes without writing files")
	rewriteCmd.Flags().BoolVarP(&rewriteWatch, "watch", "w", false, "Keep watching and rewriting on changes")
	rewriteCmd.Flags().BoolVar(&rewriteNoCache, "no-cache", false, "Scan every file, ignoring the scan cache")
}

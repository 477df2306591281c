package runner

import (
	"context"
	"sort"

	"github.com/tristendillon/realias/core/alias"
	"github.com/tristendillon/realias/core/cache"
	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/models"
	"github.com/tristendillon/realias/core/processor"
	"github.com/tristendillon/realias/core/rewrite"
	"github.com/tristendillon/realias/core/walker"
)

// Options configure one batch run.
type Options struct {
	Extensions      []string
	NativeExt       string
	PassThroughExts []string
	Exclude         []string
	Recursive       bool
	DryRun          bool
	ReportLevel     logger.LogLevel
}

// Runner drives one rewrite pass: walk the tree, feed every candidate
// through the processor, and keep per-file failures from sinking the batch.
// The table and the compiled rewriter are the only state shared across
// files, and both are read-only during a run.
type Runner struct {
	table    *alias.Table
	rewriter *rewrite.Rewriter
	walker   *walker.TreeWalkerImpl
	scans    *cache.ScanCache
	opts     Options
}

func NewRunner(table *alias.Table, opts Options) *Runner {
	matcher := rewrite.NewMatcher(table)
	return &Runner{
		table:    table,
		rewriter: rewrite.NewRewriter(matcher, opts.NativeExt, opts.PassThroughExts),
		walker:   walker.NewTreeWalker(opts.Extensions, opts.Recursive, opts.Exclude),
		opts:     opts,
	}
}

// SetScanCache attaches a cache; without one every candidate is scanned.
func (r *Runner) SetScanCache(sc *cache.ScanCache) {
	r.scans = sc
}

// CacheKey fingerprints the inputs that determine rewrite output: the alias
// table, the native extension, and the pass-through set. A cache written
// under one key is never consulted under another.
func (r *Runner) CacheKey() string {
	passThrough := make([]string, len(r.opts.PassThroughExts))
	copy(passThrough, r.opts.PassThroughExts)
	sort.Strings(passThrough)

	parts := append([]string{r.table.Fingerprint(), r.opts.NativeExt}, passThrough...)
	return cache.Key(parts...)
}

// Run executes one pass over root. Walk failures abort; per-file failures
// are logged with the offending path, counted, and skipped.
func (r *Runner) Run(ctx context.Context, root string) (*models.RunSummary, error) {
	report := logger.GetLogFromLevel(r.opts.ReportLevel)
	summary := &models.RunSummary{}

	err := r.walker.Walk(ctx, root, func(record models.FileRecord) error {
		if r.scans != nil && r.scans.CanSkip(record.Path) {
			summary.Skipped++
			return nil
		}

		result, err := r.processFile(record.Path)
		if err != nil {
			logger.Error("Skipping %s: %v", record.Path, err)
			summary.Failed++
			return nil
		}

		summary.Add(*result)
		if result.Changed {
			r.reportChanges(report, result)
		}
		r.recordScan(result)
		return nil
	})
	if err != nil {
		return summary, err
	}

	if r.scans != nil {
		r.scans.LogStats()
	}
	return summary, nil
}

func (r *Runner) processFile(path string) (*models.FileResult, error) {
	if r.opts.DryRun {
		return processor.Preview(path, r.rewriter)
	}
	return processor.Process(path, r.rewriter)
}

// reportChanges emits one line per substitution, in the order applied.
func (r *Runner) reportChanges(report func(string, ...interface{}), result *models.FileResult) {
	if r.opts.DryRun {
		report("Would change %s:", result.Path)
	} else {
		report("Changes in %s:", result.Path)
	}
	for _, aliasName := range result.Applied {
		replacement, _ := r.table.Resolve(aliasName)
		report("\t%s -> %s", aliasName, replacement)
	}
}

// recordScan updates the cache. A rewritten file is clean afterwards; a dry
// run leaves its matches in place, so that entry stays dirty and the file
// is visited again next run.
func (r *Runner) recordScan(result *models.FileResult) {
	if r.scans == nil {
		return
	}
	clean := true
	if r.opts.DryRun && result.Changed {
		clean = false
	}
	if err := r.scans.Record(result.Path, clean); err != nil {
		logger.Debug("Failed to record scan for %s: %v", result.Path, err)
	}
}

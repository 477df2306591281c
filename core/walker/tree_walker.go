package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/models"
	"github.com/tristendillon/realias/core/shared"
)

// TreeWalker enumerates candidate files under a root directory. Traversal
// order is whatever the platform yields; callers must not depend on it.
type TreeWalker interface {
	Walk(ctx context.Context, root string, visit func(models.FileRecord) error) error
}

type TreeWalkerImpl struct {
	Extensions []string
	Recursive  bool
	Exclude    []string
}

// NewTreeWalker builds a walker for the given extensions (leading dots
// tolerated, matching stays case-sensitive). Exclude holds directory names
// skipped during recursive walks.
func NewTreeWalker(extensions []string, recursive bool, exclude []string) *TreeWalkerImpl {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		if e = strings.TrimPrefix(strings.TrimSpace(e), "."); e != "" {
			exts = append(exts, e)
		}
	}
	return &TreeWalkerImpl{
		Extensions: exts,
		Recursive:  recursive,
		Exclude:    exclude,
	}
}

// Walk calls visit for every candidate under root. The context is checked
// between entries so a long traversal can be stopped cooperatively.
func (w *TreeWalkerImpl) Walk(ctx context.Context, root string, visit func(models.FileRecord) error) error {
	if !w.Recursive {
		return w.walkFlat(ctx, root, visit)
	}
	return w.walkTree(ctx, root, visit)
}

func (w *TreeWalkerImpl) walkFlat(ctx context.Context, root string, visit func(models.FileRecord) error) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		record, ok := w.candidate(filepath.Join(root, entry.Name()))
		if !ok {
			continue
		}
		if err := visit(record); err != nil {
			return err
		}
	}
	return nil
}

func (w *TreeWalkerImpl) walkTree(ctx context.Context, root string, visit func(models.FileRecord) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to walk %s: %w", root, err)
			}
			// An unreadable subtree should not sink the whole run.
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && w.excluded(d.Name()) {
				logger.Debug("Excluding directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		record, ok := w.candidate(path)
		if !ok {
			return nil
		}
		return visit(record)
	})
}

// candidate filters one entry: regular files (symlink targets included,
// dangling links dropped) whose extension is configured. A bare dotfile
// name like ".js" has no extension and never qualifies.
func (w *TreeWalkerImpl) candidate(path string) (models.FileRecord, bool) {
	ext := strings.TrimPrefix(shared.Ext(filepath.Base(path)), ".")
	if !w.hasExtension(ext) {
		return models.FileRecord{}, false
	}

	stat, err := os.Stat(path)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return models.FileRecord{}, false
	}
	if !stat.Mode().IsRegular() {
		return models.FileRecord{}, false
	}

	return models.FileRecord{Path: path, Ext: ext}, true
}

func (w *TreeWalkerImpl) hasExtension(ext string) bool {
	for _, e := range w.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (w *TreeWalkerImpl) excluded(name string) bool {
	for _, ex := range w.Exclude {
		if ex == name {
			return true
		}
	}
	return false
}

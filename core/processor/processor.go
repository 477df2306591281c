package processor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/models"
	"github.com/tristendillon/realias/core/rewrite"
)

// Process rewrites one file in place. The file is read once, the pure
// rewrite runs over its text, and the result is written back only when it
// differs. Errors are returned as-is; isolating them across files is the
// batch layer's job.
func Process(path string, rw *rewrite.Rewriter) (*models.FileResult, error) {
	result, content, err := scan(path, rw)
	if err != nil || !result.Changed {
		return result, err
	}

	mode := os.FileMode(0o644)
	if stat, statErr := os.Stat(path); statErr == nil {
		mode = stat.Mode().Perm()
	}

	if err := writeAtomic(path, []byte(content), mode); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return result, nil
}

// Preview runs the same scan without writing anything back.
func Preview(path string, rw *rewrite.Rewriter) (*models.FileResult, error) {
	result, _, err := scan(path, rw)
	return result, err
}

func scan(path string, rw *rewrite.Rewriter) (*models.FileResult, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	res := rw.Rewrite(string(data))
	if !res.Changed {
		logger.Debug("No changes in %s", path)
	}

	result := &models.FileResult{
		Path:    path,
		Changed: res.Changed,
		Applied: res.Applied,
	}
	return result, res.Content, nil
}

// writeAtomic stages the new content next to the original and renames it
// into place, so a crash mid-write leaves either the old file or the new
// one, never a torn mix.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".realias-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

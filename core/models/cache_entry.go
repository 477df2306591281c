package models

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"time"
)

// ScanEntry records what the rewriter knew about a file after its last scan.
// Clean means the scan produced no rewrites, so the file can be skipped on
// the next run as long as its content is unchanged.
type ScanEntry struct {
	FilePath  string    `msgpack:"file_path"`
	Size      int64     `msgpack:"size"`
	ModTime   time.Time `msgpack:"mod_time"`
	FileHash  string    `msgpack:"file_hash"`
	Clean     bool      `msgpack:"clean"`
	ScannedAt time.Time `msgpack:"scanned_at"`
}

func NewScanEntry(filePath string, clean bool) (*ScanEntry, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	hash, err := HashFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash for file %s: %w", filePath, err)
	}

	return &ScanEntry{
		FilePath:  filePath,
		Size:      stat.Size(),
		ModTime:   stat.ModTime(),
		FileHash:  hash,
		Clean:     clean,
		ScannedAt: time.Now(),
	}, nil
}

// IsCurrent reports whether the file on disk still matches this entry.
// Size and modtime short-circuit the content hash. A hash match refreshes
// the stat fields in place; the caller owns any synchronization.
func (se *ScanEntry) IsCurrent() (bool, error) {
	stat, err := os.Stat(se.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", se.FilePath, err)
	}

	if stat.Size() == se.Size && stat.ModTime().Equal(se.ModTime) {
		return true, nil
	}

	currentHash, err := HashFile(se.FilePath)
	if err != nil {
		return false, fmt.Errorf("failed to calculate current hash for file %s: %w", se.FilePath, err)
	}

	if currentHash == se.FileHash {
		se.Size = stat.Size()
		se.ModTime = stat.ModTime()
		return true, nil
	}

	return false, nil
}

// HashFile returns the hex md5 digest of a file's content.
func HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

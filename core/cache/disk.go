package cache

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/models"
)

// Bump whenever diskPayload changes shape; older files are silently treated
// as cold starts.
const schemaVersion uint16 = 1

type diskPayload struct {
	Schema      uint16
	Fingerprint string
	Entries     []models.ScanEntry
}

func cacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "realias"), nil
}

func (sc *ScanCache) diskPath() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scans", sc.fingerprint+".mp"), nil
}

// LoadDisk merges entries persisted by an earlier run with the same
// fingerprint. A missing, unreadable, or stale cache file is a cold start,
// not an error.
func (sc *ScanCache) LoadDisk() error {
	p, err := sc.diskPath()
	if err != nil {
		return err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		logger.Debug("Ignoring unreadable scan cache %s: %v", p, err)
		return nil
	}
	if payload.Schema != schemaVersion || payload.Fingerprint != sc.fingerprint {
		logger.Debug("Ignoring stale scan cache %s", p)
		return nil
	}

	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	for i := range payload.Entries {
		entry := payload.Entries[i]
		sc.entries[entry.FilePath] = &entry
	}
	logger.Debug("Loaded %d scan cache entries from %s", len(payload.Entries), p)
	return nil
}

// SaveDisk persists the current entries with the same stage-then-rename
// dance used for rewritten files.
func (sc *ScanCache) SaveDisk() error {
	p, err := sc.diskPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	sc.mutex.RLock()
	payload := diskPayload{
		Schema:      schemaVersion,
		Fingerprint: sc.fingerprint,
		Entries:     make([]models.ScanEntry, 0, len(sc.entries)),
	}
	// Snapshots, not the live pointers: a concurrent CanSkip may refresh
	// an entry while the encoder runs.
	for _, entry := range sc.entries {
		payload.Entries = append(payload.Entries, *entry)
	}
	sc.mutex.RUnlock()

	sort.Slice(payload.Entries, func(i, j int) bool {
		return payload.Entries[i].FilePath < payload.Entries[j].FilePath
	})

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

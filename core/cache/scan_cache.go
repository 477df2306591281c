package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/tristendillon/realias/core/logger"
	"github.com/tristendillon/realias/core/models"
)

// Key digests an ordered list of configuration parts into a cache
// fingerprint.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%s\x00", p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ScanCache remembers, per alias-table fingerprint, which files already
// scanned clean so unchanged files can be skipped on the next run. Entries
// are validated against the file system before every skip, so a stale entry
// can cost a rescan but never a missed rewrite.
type ScanCache struct {
	fingerprint string
	entries     map[string]*models.ScanEntry
	config      *CacheConfig
	metrics     *CacheMetrics
	mutex       sync.RWMutex
}

// NewScanCache creates a cache bound to one configuration fingerprint.
// Entries persisted under a different fingerprint are never consulted.
func NewScanCache(fingerprint string, config *CacheConfig) *ScanCache {
	if config == nil {
		config = DefaultCacheConfig()
	}

	cache := &ScanCache{
		fingerprint: fingerprint,
		entries:     make(map[string]*models.ScanEntry),
		config:      config,
		metrics:     &CacheMetrics{},
	}

	logger.Debug("Created scan cache for fingerprint %.16s with MaxEntries=%d",
		fingerprint, config.MaxEntries)

	return cache
}

// CanSkip reports whether filePath scanned clean under this configuration
// and is unchanged on disk. It holds the write lock for the whole check:
// IsCurrent may refresh the entry's stat fields in place, and nothing else
// may observe the entry mid-refresh.
func (sc *ScanCache) CanSkip(filePath string) bool {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	entry, exists := sc.entries[filePath]
	if !exists {
		sc.metrics.Misses++
		return false
	}

	if !entry.Clean {
		// The last scan still saw rewritable imports here (a dry run),
		// so the file must be visited again.
		sc.metrics.Misses++
		return false
	}

	current, err := entry.IsCurrent()
	if err != nil {
		logger.Debug("Cache validation error for %s: %v", filePath, err)
		sc.invalidateLocked(filePath)
		sc.metrics.Misses++
		return false
	}
	if !current {
		logger.Debug("Cache miss for %s - file modified", filePath)
		sc.invalidateLocked(filePath)
		sc.metrics.Misses++
		return false
	}

	sc.metrics.Hits++
	logger.Debug("Cache hit for %s", filePath)
	return true
}

// Record stores the post-scan state of a file.
func (sc *ScanCache) Record(filePath string, clean bool) error {
	entry, err := models.NewScanEntry(filePath, clean)
	if err != nil {
		return fmt.Errorf("failed to create scan entry: %w", err)
	}

	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if len(sc.entries) >= sc.config.MaxEntries {
		logger.Debug("Cache full, evicting oldest entries")
		sc.evictOldest()
	}

	sc.entries[filePath] = entry
	return nil
}

func (sc *ScanCache) InvalidateFile(filePath string) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.invalidateLocked(filePath)
}

func (sc *ScanCache) invalidateLocked(filePath string) {
	if _, exists := sc.entries[filePath]; exists {
		delete(sc.entries, filePath)
		sc.metrics.Invalidations++
		logger.Debug("Invalidated cache entry for %s", filePath)
	}
}

func (sc *ScanCache) Clear() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	entriesCount := len(sc.entries)
	sc.entries = make(map[string]*models.ScanEntry)
	sc.metrics.Invalidations += int64(entriesCount)
	logger.Debug("Cleared scan cache, invalidated %d entries", entriesCount)
}

func (sc *ScanCache) Len() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return len(sc.entries)
}

func (sc *ScanCache) GetMetrics() *CacheMetrics {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	metrics := *sc.metrics
	metrics.TotalEntries = len(sc.entries)
	metrics.CalculateHitRate()
	return &metrics
}

func (sc *ScanCache) LogStats() {
	metrics := sc.GetMetrics()
	logger.Debug("Cache stats: Hits=%d, Misses=%d, Hit Rate=%.1f%%, Total Entries=%d, Invalidations=%d",
		metrics.Hits, metrics.Misses, metrics.HitRate, metrics.TotalEntries, metrics.Invalidations)
}

func (sc *ScanCache) evictOldest() {
	var oldestPath string
	for path, entry := range sc.entries {
		if oldestPath == "" || entry.ScannedAt.Before(sc.entries[oldestPath].ScannedAt) {
			oldestPath = path
		}
	}

	if oldestPath != "" {
		delete(sc.entries, oldestPath)
		sc.metrics.Invalidations++
		logger.Debug("Evicted oldest cache entry: %s", oldestPath)
	}
}

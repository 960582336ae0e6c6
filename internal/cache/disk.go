package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const indexFile = "cache.index"

// DiskCache is a size-capped, persistent audio cache.
type DiskCache struct {
	basePath string
	capacity int64 // Maximum size in bytes
	size     int64 // Current size in bytes

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskCacheEntry

	mu    sync.Mutex
	stats Stats
}

// diskCacheEntry represents an entry in the disk cache index
type diskCacheEntry struct {
	Key          string
	FilePath     string
	Size         int64 // Size on disk (compressed)
	OriginalSize int64 // Original size (uncompressed)
	Timestamp    time.Time
	LastAccess   time.Time
	Hits         int64
	Compressed   bool
}

// NewDiskCache opens (or creates) a cache in cfg.Dir.
func NewDiskCache(cfg Config) (*DiskCache, error) {
	if cfg.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dc := &DiskCache{
		basePath: cfg.Dir,
		capacity: cfg.Capacity,
		index:    make(map[string]*diskCacheEntry),
		stats:    Stats{Capacity: cfg.Capacity},
	}

	if cfg.CompressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.CompressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
	}
	// The decoder is always available so entries written with compression
	// stay readable after compression is turned off.
	var err error
	dc.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	if err := dc.loadIndex(); err != nil {
		dc.index = make(map[string]*diskCacheEntry)
	}
	dc.calculateSize()

	return dc, nil
}

// Get retrieves a clip.
func (dc *DiskCache) Get(key Key) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	k := key.String()
	entry, ok := dc.index[k]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		dc.drop(k, entry)
		dc.stats.Misses++
		return nil, false
	}

	if entry.Compressed {
		decompressed, err := dc.decoder.DecodeAll(data, nil)
		if err != nil {
			dc.drop(k, entry)
			dc.stats.Misses++
			return nil, false
		}
		data = decompressed
	}

	entry.LastAccess = time.Now()
	entry.Hits++
	dc.stats.Hits++
	dc.stats.LastAccess = entry.LastAccess

	return data, true
}

// Put stores a clip, evicting old entries as needed.
func (dc *DiskCache) Put(key Key, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	k := key.String()
	originalSize := int64(len(value))

	dataToWrite := value
	compressed := false
	if dc.encoder != nil && originalSize > 1024 {
		c := dc.encoder.EncodeAll(value, nil)
		if len(c) < len(value) {
			dataToWrite = c
			compressed = true
		}
	}
	diskSize := int64(len(dataToWrite))

	if diskSize > dc.capacity {
		return ErrItemTooLarge
	}

	if existing, ok := dc.index[k]; ok {
		dc.drop(k, existing)
	}
	for dc.size+diskSize > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	filePath := filepath.Join(dc.basePath, k[:32]+".cache")
	if err := writeFileAtomic(filePath, dataToWrite); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	dc.index[k] = &diskCacheEntry{
		Key:          k,
		FilePath:     filePath,
		Size:         diskSize,
		OriginalSize: originalSize,
		Timestamp:    now,
		LastAccess:   now,
		Compressed:   compressed,
	}
	dc.size += diskSize

	return dc.saveIndex()
}

// Contains checks for a key without touching access times.
func (dc *DiskCache) Contains(key Key) bool {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	_, ok := dc.index[key.String()]
	return ok
}

// Clear removes all entries.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for _, entry := range dc.index {
		_ = os.Remove(entry.FilePath)
	}
	dc.index = make(map[string]*diskCacheEntry)
	dc.size = 0

	return dc.saveIndex()
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Size = dc.size
	stats.ItemCount = int64(len(dc.index))
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// Close saves the index and releases the codecs.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	err := dc.saveIndex()
	if dc.encoder != nil {
		_ = dc.encoder.Close()
	}
	dc.decoder.Close()
	return err
}

// drop removes an entry and its file. Caller holds mu.
func (dc *DiskCache) drop(k string, entry *diskCacheEntry) {
	_ = os.Remove(entry.FilePath)
	dc.size -= entry.Size
	delete(dc.index, k)
}

func (dc *DiskCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range dc.index {
		if oldestKey == "" || entry.LastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastAccess
		}
	}

	if oldestKey != "" {
		dc.drop(oldestKey, dc.index[oldestKey])
		dc.stats.Evictions++
		dc.stats.LastEvict = time.Now()
	}
}

func (dc *DiskCache) loadIndex() error {
	file, err := os.Open(filepath.Join(dc.basePath, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	indexPath := filepath.Join(dc.basePath, indexFile)
	tempPath := indexPath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(file).Encode(dc.index)
	closeErr := file.Close()
	if err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		_ = os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, indexPath)
}

func (dc *DiskCache) calculateSize() {
	dc.size = 0
	for _, entry := range dc.index {
		dc.size += entry.Size
	}
}

// writeFileAtomic writes to a temp file and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}

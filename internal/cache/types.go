package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrInvalidCapacity is returned for a non-positive capacity
	ErrInvalidCapacity = errors.New("cache capacity must be positive")
)

// Stats holds cache counters.
type Stats struct {
	Capacity  int64 // Maximum capacity in bytes (on disk)
	Size      int64 // Current size in bytes (on disk)
	ItemCount int64 // Number of items in cache

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	LastAccess time.Time
	LastEvict  time.Time
}

// Config holds configuration for a DiskCache.
type Config struct {
	Dir              string // Directory for cache files
	Capacity         int64  // Bytes on disk
	CompressionLevel int    // Zstd level (1-22), 0 disables compression
}

// DefaultConfig returns the default cache configuration without a directory.
func DefaultConfig() Config {
	return Config{
		Capacity:         100 * 1024 * 1024, // 100MB
		CompressionLevel: 3,
	}
}

// Key identifies one synthesized clip.
type Key struct {
	Text     string
	VoiceID  string
	ModelID  string
	Format   string
	Speed    float64 // zero means the voice's default rate
	Settings string  // voice rendering settings, empty when unknown
}

// String returns a stable hash of the key components.
func (k Key) String() string {
	parts := []string{k.VoiceID, k.ModelID, k.Format, k.Text}
	if k.Speed != 0 {
		parts = append(parts, strconv.FormatFloat(k.Speed, 'f', 2, 64))
	}
	if k.Settings != "" {
		parts = append(parts, k.Settings)
	}
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

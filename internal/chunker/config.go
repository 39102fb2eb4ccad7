package chunker

import (
	"errors"
	"fmt"
)

// Default thresholds, in characters (Unicode code points).
const (
	DefaultTargetSize        = 10000
	DefaultMaxSize           = 40000
	DefaultMinMergeSize      = 1000
	DefaultSmallDocThreshold = 15000
	DefaultGroupLevel        = 2
)

// ErrInvalidConfig is wrapped by every threshold validation failure.
var ErrInvalidConfig = errors.New("invalid chunker config")

// Config controls chunking behavior. Zero fields take the defaults.
type Config struct {
	TargetSize        int `json:"target_size"`         // Grouping closes a chunk before it would grow past this.
	MaxSize           int `json:"max_size"`            // Hard ceiling; larger chunks are force-split.
	MinMergeSize      int `json:"min_merge_size"`      // Chunks below this keep absorbing following sections.
	SmallDocThreshold int `json:"small_doc_threshold"` // Documents at or below this stay whole.
	GroupLevel        int `json:"group_level"`         // Header level whose sections are grouping units (1..3).
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		TargetSize:        DefaultTargetSize,
		MaxSize:           DefaultMaxSize,
		MinMergeSize:      DefaultMinMergeSize,
		SmallDocThreshold: DefaultSmallDocThreshold,
		GroupLevel:        DefaultGroupLevel,
	}
}

// WithDefaults fills zero fields with defaults. Negative values are kept so
// Validate can reject them.
func (c Config) WithDefaults() Config {
	if c.TargetSize == 0 {
		c.TargetSize = DefaultTargetSize
	}
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MinMergeSize == 0 {
		c.MinMergeSize = DefaultMinMergeSize
	}
	if c.SmallDocThreshold == 0 {
		c.SmallDocThreshold = DefaultSmallDocThreshold
	}
	if c.GroupLevel == 0 {
		c.GroupLevel = DefaultGroupLevel
	}
	return c
}

// Validate rejects degenerate threshold combinations.
func (c Config) Validate() error {
	c = c.WithDefaults()
	switch {
	case c.TargetSize < 0 || c.MaxSize < 0 || c.MinMergeSize < 0 || c.SmallDocThreshold < 0:
		return fmt.Errorf("%w: sizes must be positive", ErrInvalidConfig)
	case c.MinMergeSize > c.TargetSize:
		return fmt.Errorf("%w: min_merge_size (%d) exceeds target_size (%d)", ErrInvalidConfig, c.MinMergeSize, c.TargetSize)
	case c.TargetSize > c.MaxSize:
		return fmt.Errorf("%w: target_size (%d) exceeds max_size (%d)", ErrInvalidConfig, c.TargetSize, c.MaxSize)
	case c.SmallDocThreshold > c.MaxSize:
		return fmt.Errorf("%w: small_doc_threshold (%d) exceeds max_size (%d)", ErrInvalidConfig, c.SmallDocThreshold, c.MaxSize)
	case c.GroupLevel < 1 || c.GroupLevel > 3:
		return fmt.Errorf("%w: group_level must be between 1 and 3, got %d", ErrInvalidConfig, c.GroupLevel)
	}
	return nil
}

package receipt

import (
	"fmt"

	"github.com/ethpandaops/receipt-importer/pkg/rlpitem"
)

const (
	// DefaultMaxDepth bounds how many container lists may wrap a receipt.
	DefaultMaxDepth = 256

	// receiptNesting covers the lists inside a receipt itself: the receipt
	// list, the logs list, a log entry and its topics, plus headroom.
	receiptNesting = 8

	// MaxAllowedDepth is the largest MaxDepth a Config accepts.
	MaxAllowedDepth = rlpitem.DefaultMaxDepth
)

// Config configures receipt decoding.
type Config struct {
	// MaxDepth is the deepest container level a receipt may be nested at,
	// at most MaxAllowedDepth. 0 selects DefaultMaxDepth.
	MaxDepth int `yaml:"maxDepth" default:"256"`
	// Workers is the number of goroutines flattening top-level entries.
	// 0 and 1 both decode serially.
	Workers int `yaml:"workers" default:"1"`
	// RequireNonEmpty turns a batch without receipts into ErrEmptyBatch.
	RequireNonEmpty bool `yaml:"requireNonEmpty"`
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("maxDepth must not be negative, got %d", c.MaxDepth)
	}

	if c.MaxDepth > MaxAllowedDepth {
		return fmt.Errorf("maxDepth must be at most %d, got %d", MaxAllowedDepth, c.MaxDepth)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	return nil
}

// SetDefaults sets default values for unset fields.
func (c *Config) SetDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}

	if c.Workers == 0 {
		c.Workers = 1
	}
}

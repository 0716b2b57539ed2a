package news

import (
	"fmt"
	"time"
)

// Config holds the tunable thresholds of the pipeline.
type Config struct {
	// ResultCap is the maximum number of articles returned by any entry point.
	// Default: 10
	ResultCap int

	// MinValidResults is the minimum number of validated live articles needed to
	// show live results. Fewer falls back to the sample set.
	// Default: 6
	MinValidResults int

	// OverFetchFactor multiplies ResultCap to size the upstream request, since many
	// candidates are expected to fail validation.
	// Default: 3
	OverFetchFactor int

	// RecencyWindow bounds how old requested category and latest articles may be.
	// Default: 144h (6 days)
	RecencyWindow time.Duration

	// ValidationParallelism caps concurrent link checks within one batch.
	// Default: 30
	ValidationParallelism int

	// RefreshParallelism caps how many categories are refreshed at once.
	// Default: 2
	RefreshParallelism int

	// ValidateSearch runs the link validator on free-text search results.
	// Default: false
	ValidateSearch bool
}

// DefaultConfig returns the default pipeline thresholds.
func DefaultConfig() Config {
	return Config{
		ResultCap:             10,
		MinValidResults:       6,
		OverFetchFactor:       3,
		RecencyWindow:         6 * 24 * time.Hour,
		ValidationParallelism: 30,
		RefreshParallelism:    2,
		ValidateSearch:        false,
	}
}

// Validate checks the thresholds are consistent.
func (c Config) Validate() error {
	if c.ResultCap < 1 || c.ResultCap > 100 {
		return fmt.Errorf("result cap must be between 1 and 100, got %d", c.ResultCap)
	}
	if c.MinValidResults < 0 || c.MinValidResults > c.ResultCap {
		return fmt.Errorf("min valid results must be between 0 and result cap (%d), got %d", c.ResultCap, c.MinValidResults)
	}
	if c.OverFetchFactor < 1 || c.OverFetchFactor > 10 {
		return fmt.Errorf("over-fetch factor must be between 1 and 10, got %d", c.OverFetchFactor)
	}
	if c.RecencyWindow <= 0 {
		return fmt.Errorf("recency window must be positive, got %v", c.RecencyWindow)
	}
	if c.ValidationParallelism < 1 {
		return fmt.Errorf("validation parallelism must be positive, got %d", c.ValidationParallelism)
	}
	if c.RefreshParallelism < 1 {
		return fmt.Errorf("refresh parallelism must be positive, got %d", c.RefreshParallelism)
	}
	return nil
}

// upstreamPageSize is the number of candidates requested for validated paths.
func (c Config) upstreamPageSize() int {
	return c.ResultCap * c.OverFetchFactor
}

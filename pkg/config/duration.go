package config

import (
	"fmt"
	"time"
)

// ValidateDurationRange checks that the named duration lies in [min, max].
func ValidateDurationRange(name string, d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("%s: invalid range %v..%v", name, min, max)
	}
	if d < min || d > max {
		return fmt.Errorf("%s must be between %v and %v, got %v", name, min, max, d)
	}
	return nil
}

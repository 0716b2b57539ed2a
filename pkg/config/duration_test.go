package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateDurationRange(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		min     time.Duration
		max     time.Duration
		wantErr bool
	}{
		{name: "inside", d: 15 * time.Minute, min: time.Minute, max: time.Hour},
		{name: "at min", d: time.Minute, min: time.Minute, max: time.Hour},
		{name: "at max", d: time.Hour, min: time.Minute, max: time.Hour},
		{name: "below", d: time.Second, min: time.Minute, max: time.Hour, wantErr: true},
		{name: "above", d: 2 * time.Hour, min: time.Minute, max: time.Hour, wantErr: true},
		{name: "inverted range", d: time.Minute, min: time.Hour, max: time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDurationRange("ttl", tt.d, tt.min, tt.max)
			if tt.wantErr {
				assert.ErrorContains(t, err, "ttl")
				return
			}
			assert.NoError(t, err)
		})
	}
}

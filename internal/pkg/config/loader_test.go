package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		wantValue    string
		wantFallback bool
	}{
		{name: "unset uses default silently", value: "", wantValue: "*/30 * * * *"},
		{name: "valid value", value: "0 * * * *", wantValue: "0 * * * *"},
		{name: "value is trimmed", value: "  0 6 * * *  ", wantValue: "0 6 * * *"},
		{name: "invalid falls back", value: "every hour", wantValue: "*/30 * * * *", wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SCHEDULE", tt.value)

			res := LoadEnv("TEST_SCHEDULE", "*/30 * * * *", ValidateCronSchedule)

			assert.Equal(t, tt.wantValue, res.Value)
			assert.Equal(t, tt.wantFallback, res.FallbackApplied)
			if tt.wantFallback {
				assert.Contains(t, res.Warning, "TEST_SCHEDULE")
				assert.Contains(t, res.Warning, "every hour")
			} else {
				assert.Empty(t, res.Warning)
			}
		})
	}
}

func TestLoadEnv_NilValidator(t *testing.T) {
	t.Setenv("TEST_ANY", "anything")
	assert.Equal(t, "anything", LoadEnv("TEST_ANY", "x", nil).Value)
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         time.Duration
		wantFallback bool
	}{
		{name: "unset", value: "", want: 2 * time.Minute},
		{name: "valid", value: "45s", want: 45 * time.Second},
		{name: "unparseable", value: "soon", want: 2 * time.Minute, wantFallback: true},
		{name: "fails validation", value: "-5s", want: 2 * time.Minute, wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TIMEOUT", tt.value)

			res := LoadEnvDuration("TEST_TIMEOUT", 2*time.Minute, ValidatePositiveDuration)

			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantFallback, res.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 5) }

	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
	}{
		{name: "unset", value: "", want: 3},
		{name: "valid", value: "5", want: 5},
		{name: "out of range", value: "9", want: 3, wantFallback: true},
		{name: "not a number", value: "3x", want: 3, wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ATTEMPTS", tt.value)

			res := LoadEnvInt("TEST_ATTEMPTS", 3, inRange)

			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantFallback, res.FallbackApplied)
		})
	}
}

func TestLoadEnvBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "false")
	res := LoadEnvBool("TEST_FLAG", true)
	assert.False(t, res.Value)
	assert.False(t, res.FallbackApplied)

	t.Setenv("TEST_FLAG", "peut-être")
	res = LoadEnvBool("TEST_FLAG", true)
	assert.True(t, res.Value)
	assert.True(t, res.FallbackApplied)
}

func TestLoad_ValidatorErrorIsReported(t *testing.T) {
	t.Setenv("TEST_CUSTOM", "x")

	res := LoadEnv("TEST_CUSTOM", "y", func(string) error { return errors.New("boom") })

	assert.Equal(t, "y", res.Value)
	assert.Contains(t, res.Warning, "boom")
}

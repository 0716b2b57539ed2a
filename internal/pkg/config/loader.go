// Package config provides fail-open environment loaders for background processes.
//
// Each loader reads one variable, parses and validates it, and falls back to the
// supplied default on any failure. The fallback is reported in the returned
// LoadResult rather than as an error, so a process with a bad setting keeps
// running on known-good defaults while the warning is logged and counted.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
type LoadResult[T any] struct {
	// Value is the loaded value, or the default when FallbackApplied is set.
	Value T

	// Warning describes why the default was used. Empty when FallbackApplied is false.
	Warning string

	// FallbackApplied is true if the variable was set but could not be used.
	FallbackApplied bool
}

// LoadEnv loads a string variable. validator may be nil.
//
// Example:
//
//	res := LoadEnv("REFRESH_CRON_SCHEDULE", "*/30 * * * *", ValidateCronSchedule)
func LoadEnv(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a variable parsed by time.ParseDuration. validator may be nil.
//
// Example:
//
//	res := LoadEnvDuration("REFRESH_TIMEOUT", 2*time.Minute, ValidatePositiveDuration)
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer variable. validator may be nil.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	return load(envKey, defaultValue, strconv.Atoi, validator)
}

// LoadEnvBool loads a boolean variable in any form strconv.ParseBool accepts.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	return load(envKey, defaultValue, strconv.ParseBool, nil)
}

func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validator != nil {
		err = validator(value)
	}
	if err != nil {
		return LoadResult[T]{
			Value: defaultValue,
			Warning: fmt.Sprintf("invalid %s=%q: %v, falling back to default %q",
				envKey, raw, err, fmt.Sprint(defaultValue)),
			FallbackApplied: true,
		}
	}

	return LoadResult[T]{Value: value}
}

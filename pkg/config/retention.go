package config

import "time"

// RetentionConfig controls data retention and cleanup behavior.
type RetentionConfig struct {
	// RequestRetentionDays is how many days to keep finished search
	// requests before deleting them.
	RequestRetentionDays int

	// EventTTL is the maximum age of orphaned Event rows before deletion.
	// Per-request cleanup handles the normal case; this is a safety net.
	EventTTL time.Duration

	// CleanupInterval is how often the cleanup loop runs.
	CleanupInterval time.Duration
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		RequestRetentionDays: 30,
		EventTTL:             1 * time.Hour,
		CleanupInterval:      12 * time.Hour,
	}
}

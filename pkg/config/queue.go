package config

import "time"

// QueueConfig contains worker pool configuration for streaming searches.
// These values control how pending search requests are polled and claimed.
type QueueConfig struct {
	// WorkerCount is the number of worker goroutines per replica/pod.
	// Each worker independently polls and processes search requests.
	WorkerCount int

	// PollInterval is the base interval for checking pending requests.
	PollInterval time.Duration

	// PollIntervalJitter is the random jitter added to PollInterval.
	// Actual interval: PollInterval ± PollIntervalJitter.
	PollIntervalJitter time.Duration

	// SearchTimeout is the maximum time one pipeline run may take.
	SearchTimeout time.Duration

	// GracefulShutdownTimeout is the max time to wait for active searches
	// to complete during shutdown.
	GracefulShutdownTimeout time.Duration

	// EventCleanupGrace is how long finished request events stay in the
	// database so late subscribers can still catch up.
	EventCleanupGrace time.Duration

	// OrphanScanInterval is how often each pod scans for requests stuck
	// in running because their worker died.
	OrphanScanInterval time.Duration
}

// DefaultQueueConfig returns the built-in queue defaults.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		WorkerCount:             4,
		PollInterval:            1 * time.Second,
		PollIntervalJitter:      500 * time.Millisecond,
		SearchTimeout:           2 * time.Minute,
		GracefulShutdownTimeout: 2 * time.Minute,
		EventCleanupGrace:       60 * time.Second,
		OrphanScanInterval:      1 * time.Minute,
	}
}

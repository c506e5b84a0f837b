package analytics

import (
	"fmt"
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PostHogTracker ships events to PostHog. Enqueue buffers locally and a
// background goroutine owned by the PostHog client flushes in batches, so
// tracking never blocks a search.
type PostHogTracker struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPostHogTracker creates a tracker for the given project API key.
// endpoint may be empty to use the PostHog cloud default.
func NewPostHogTracker(apiKey, endpoint string, logger *slog.Logger) (*PostHogTracker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := posthog.Config{}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	client, err := posthog.NewWithConfig(apiKey, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostHog client: %w", err)
	}

	return &PostHogTracker{
		client: client,
		logger: logger,
	}, nil
}

// TrackSearchQuery implements Tracker. Events without a distinct ID are
// dropped: PostHog rejects them anyway and an unattributed event is
// useless for product analytics.
func (t *PostHogTracker) TrackSearchQuery(ev SearchQueryEvent) {
	if ev.DistinctID == "" {
		t.logger.Debug("Dropping analytics event without distinct ID",
			"event", EventSearchQuery)
		return
	}

	searchType := "regular"
	if ev.Streaming {
		searchType = "streaming"
	}

	props := posthog.NewProperties().
		Set("collection_slug", ev.CollectionSlug).
		Set("query_length", ev.QueryLength).
		Set("duration_ms", ev.DurationMs).
		Set("search_type", searchType).
		Set("status", ev.Status)
	if ev.OrganizationName != "" {
		props = props.Set("organization_name", ev.OrganizationName)
	}
	if ev.ResultsCount > 0 {
		props = props.Set("results_count", ev.ResultsCount)
	}

	capture := posthog.Capture{
		DistinctId: ev.DistinctID,
		Event:      EventSearchQuery,
		Properties: props,
	}
	if ev.OrganizationID != "" {
		capture.Groups = posthog.NewGroups().Set("organization", ev.OrganizationID)
	}

	if err := t.client.Enqueue(capture); err != nil {
		t.logger.Warn("Failed to enqueue analytics event",
			"event", EventSearchQuery,
			"error", err)
	}
}

// Close implements Tracker.
func (t *PostHogTracker) Close() error {
	return t.client.Close()
}

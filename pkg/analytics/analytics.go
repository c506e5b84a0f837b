// Package analytics records product usage events. The search pipeline
// reports one business event per execution through the Tracker interface;
// the PostHog implementation ships them in the background and a noop
// implementation serves deployments without an API key.
package analytics

// Execution outcome values for SearchQueryEvent.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// EventSearchQuery is the business event name recorded once per pipeline
// execution.
const EventSearchQuery = "search_query"

// SearchQueryEvent describes one completed (or failed) search execution.
// Only derived properties are carried: never the query text itself.
type SearchQueryEvent struct {
	DistinctID       string
	OrganizationID   string
	OrganizationName string
	CollectionSlug   string
	QueryLength      int
	DurationMs       int64
	Streaming        bool
	Status           string
	ResultsCount     int
}

// Tracker records business events. Implementations must never block the
// caller on delivery and must swallow delivery failures.
type Tracker interface {
	// TrackSearchQuery records one search_query event.
	TrackSearchQuery(ev SearchQueryEvent)

	// Close flushes buffered events and releases resources.
	Close() error
}

// NoopTracker discards all events. Used when analytics is not configured.
type NoopTracker struct{}

// NewNoopTracker creates a tracker that does nothing.
func NewNoopTracker() *NoopTracker {
	return &NoopTracker{}
}

// TrackSearchQuery implements Tracker.
func (t *NoopTracker) TrackSearchQuery(SearchQueryEvent) {}

// Close implements Tracker.
func (t *NoopTracker) Close() error { return nil }

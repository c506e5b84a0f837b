package search

// Stream event types emitted during search execution, in lifecycle order.
// Every streaming execution emits exactly one start and exactly one done;
// operator and error events appear between them, and results/summary appear
// before done on the success path.
const (
	EventTypeStart         = "start"
	EventTypeOperatorStart = "operator_start"
	EventTypeOperatorEnd   = "operator_end"
	EventTypeError         = "error"
	EventTypeResults       = "results"
	EventTypeSummary       = "summary"
	EventTypeDone          = "done"
)

// Frame is the envelope shared by every stream event. Seq is assigned by
// the emitter's writer goroutine and is dense and monotonic per request,
// starting at 1. Op and OpSeq are present only on operator-scoped events.
// Ts is RFC 3339 with nanoseconds, UTC, captured when the event was
// submitted rather than when it was published.
type Frame struct {
	Type  string `json:"type"`
	Seq   int64  `json:"seq"`
	Op    string `json:"op,omitempty"`
	OpSeq int64  `json:"op_seq,omitempty"`
	Ts    string `json:"ts"`
}

// StartPayload is the first frame of every stream.
type StartPayload struct {
	Frame
	RequestID string `json:"request_id"`
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// OperatorStartPayload announces that an operator began executing.
type OperatorStartPayload struct {
	Frame
	Name string `json:"name"`
}

// OperatorEndPayload reports an operator's wall-clock duration.
type OperatorEndPayload struct {
	Frame
	Name string  `json:"name"`
	Ms   float64 `json:"ms"`
}

// ErrorPayload reports an operator failure. The stream ends with done
// shortly after one of these.
type ErrorPayload struct {
	Frame
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

// ResultsPayload carries the final result set on the success path.
type ResultsPayload struct {
	Frame
	Results []SearchResult `json:"results"`
}

// SummaryPayload reports per-operator timings and accumulated errors.
type SummaryPayload struct {
	Frame
	Timings     map[string]float64 `json:"timings"`
	Errors      []OperationError   `json:"errors"`
	TotalTimeMs float64            `json:"total_time_ms"`
}

// DonePayload is the last frame of every stream, emitted on success and
// failure alike.
type DonePayload struct {
	Frame
	RequestID string `json:"request_id"`
}

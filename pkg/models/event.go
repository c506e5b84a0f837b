package models

// CreateEventRequest contains fields for persisting a stream event
type CreateEventRequest struct {
	RequestID string         `json:"request_id"`
	Channel   string         `json:"channel"`
	Payload   map[string]any `json:"payload"`
}

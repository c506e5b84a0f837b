package api

import (
	"github.com/Zeeeepa/airweave/pkg/queue"
)

// ErrorResponse is the JSON envelope for all non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck describes the state of one dependency in HealthResponse.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status     string                 `json:"status"`
	Version    string                 `json:"version"`
	Checks     map[string]HealthCheck `json:"checks"`
	WorkerPool *queue.PoolHealth      `json:"worker_pool,omitempty"`
}

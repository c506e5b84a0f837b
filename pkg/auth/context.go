// Package auth carries the authenticated identity of an API request.
//
// The API middleware resolves an API key into a RequestContext; services and
// the search pipeline consume it for tenancy scoping, logging, and analytics
// attribution. The package deliberately knows nothing about HTTP.
package auth

import (
	"log/slog"
)

// Method identifies how a request was authenticated.
type Method string

const (
	// MethodAPIKey means the caller presented an organization API key.
	MethodAPIKey Method = "api_key"
	// MethodSystem marks internal callers (workers, tests) that bypass
	// API-key resolution.
	MethodSystem Method = "system"
)

// Organization is the tenancy scope of a request.
type Organization struct {
	ID   string
	Name string
}

// User is the optional human identity behind a request. API keys used
// directly (scripts, integrations) have no user.
type User struct {
	ID    string
	Email string
}

// RequestContext bundles everything downstream code needs to know about the
// caller. It is immutable after the middleware constructs it.
type RequestContext struct {
	RequestID    string
	Method       Method
	Organization Organization
	User         *User
	Logger       *slog.Logger
}

// DistinctID returns the analytics identity for this request: the user ID
// when one is known, otherwise a stable per-organization API key identity.
func (c *RequestContext) DistinctID() string {
	if c.User != nil && c.User.ID != "" {
		return c.User.ID
	}
	return "api_key_" + c.Organization.ID
}

// Log returns the request-scoped logger, falling back to the default
// logger so callers never need a nil check.
func (c *RequestContext) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

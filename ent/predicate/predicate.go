// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// APIKey is the predicate function for apikey builders.
type APIKey func(*sql.Selector)

// Collection is the predicate function for collection builders.
type Collection func(*sql.Selector)

// Event is the predicate function for event builders.
type Event func(*sql.Selector)

// Organization is the predicate function for organization builders.
type Organization func(*sql.Selector)

// SearchRequest is the predicate function for searchrequest builders.
type SearchRequest func(*sql.Selector)

// User is the predicate function for user builders.
type User func(*sql.Selector)

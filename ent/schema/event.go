package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Event holds the schema definition for the Event entity.
// Stream events are persisted before NOTIFY so that WebSocket subscribers
// who connect mid-stream can catch up from the database. Rows are short
// lived: they are deleted shortly after the request finishes.
//
// request_id is intentionally a plain string, not a foreign key: the
// executor accepts arbitrary request IDs, and the publisher must never
// fail because a row is missing in search_requests.
type Event struct {
	ent.Schema
}

// Fields of the Event.
func (Event) Fields() []ent.Field {
	return []ent.Field{
		// Default int ID: autoincrement, used as the catch-up cursor.
		field.String("request_id"),
		field.String("channel"),
		field.JSON("payload", map[string]interface{}{}).
			Comment("Complete JSON event frame as published"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Indexes of the Event.
func (Event) Indexes() []ent.Index {
	return []ent.Index{
		// Catch-up queries: channel equality + id cursor
		index.Fields("channel"),
		index.Fields("request_id"),
		// TTL cleanup
		index.Fields("created_at"),
	}
}

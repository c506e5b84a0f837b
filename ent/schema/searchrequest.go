package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SearchRequest holds the schema definition for the SearchRequest entity.
// Streaming searches are persisted here as a work queue: the API inserts a
// pending row, a worker claims it with FOR UPDATE SKIP LOCKED and runs the
// pipeline, and subscribers follow progress on the search:<request_id>
// event channel.
type SearchRequest struct {
	ent.Schema
}

// Fields of the SearchRequest.
func (SearchRequest) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("request_id").
			Unique().
			Immutable(),
		field.String("collection_id"),
		field.String("organization_id"),
		field.String("user_id").
			Optional().
			Nillable().
			Comment("Set when the request was authenticated as a user rather than a bare API key"),
		field.Text("query"),
		field.JSON("config", map[string]interface{}{}).
			Comment("The search request body as submitted, replayed by the worker"),
		field.Enum("status").
			Values("pending", "running", "completed", "failed").
			Default("pending"),
		field.String("worker_id").
			Optional().
			Nillable(),
		field.Time("claimed_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.String("error_message").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the SearchRequest.
func (SearchRequest) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("collection", Collection.Type).
			Ref("search_requests").
			Field("collection_id").
			Unique().
			Required(),
	}
}

// Indexes of the SearchRequest.
func (SearchRequest) Indexes() []ent.Index {
	return []ent.Index{
		// Claim ordering: oldest pending first
		index.Fields("status", "created_at"),
		index.Fields("organization_id"),
	}
}

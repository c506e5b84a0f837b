package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Collection holds the schema definition for the Collection entity.
// A collection is a logical corpus of documents backed by one Qdrant
// collection; searches always target a single collection.
type Collection struct {
	ent.Schema
}

// Fields of the Collection.
func (Collection) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("collection_id").
			Unique().
			Immutable(),
		field.String("slug").
			Comment("URL-safe identifier, unique within an organization"),
		field.String("name"),
		field.String("organization_id"),
		field.Int("vector_size").
			Default(1536).
			Comment("Dimensionality of the backing Qdrant collection"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Collection.
func (Collection) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("organization", Organization.Type).
			Ref("collections").
			Field("organization_id").
			Unique().
			Required(),
		edge.To("search_requests", SearchRequest.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Collection.
func (Collection) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("organization_id", "slug").
			Unique(),
	}
}

// Code generated by ent, DO NOT EDIT.

package collection

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

const (
	// Label holds the string label denoting the collection type in the database.
	Label = "collection"
	// FieldID holds the string denoting the id field in the database.
	FieldID = "collection_id"
	// FieldSlug holds the string denoting the slug field in the database.
	FieldSlug = "slug"
	// FieldName holds the string denoting the name field in the database.
	FieldName = "name"
	// FieldOrganizationID holds the string denoting the organization_id field in the database.
	FieldOrganizationID = "organization_id"
	// FieldVectorSize holds the string denoting the vector_size field in the database.
	FieldVectorSize = "vector_size"
	// FieldCreatedAt holds the string denoting the created_at field in the database.
	FieldCreatedAt = "created_at"
	// EdgeOrganization holds the string denoting the organization edge name in mutations.
	EdgeOrganization = "organization"
	// EdgeSearchRequests holds the string denoting the search_requests edge name in mutations.
	EdgeSearchRequests = "search_requests"
	// OrganizationFieldID holds the string denoting the ID field of the Organization.
	OrganizationFieldID = "organization_id"
	// SearchRequestFieldID holds the string denoting the ID field of the SearchRequest.
	SearchRequestFieldID = "request_id"
	// Table holds the table name of the collection in the database.
	Table = "collections"
	// OrganizationTable is the table that holds the organization relation/edge.
	OrganizationTable = "collections"
	// OrganizationInverseTable is the table name for the Organization entity.
	// It exists in this package in order to avoid circular dependency with the "organization" package.
	OrganizationInverseTable = "organizations"
	// OrganizationColumn is the table column denoting the organization relation/edge.
	OrganizationColumn = "organization_id"
	// SearchRequestsTable is the table that holds the search_requests relation/edge.
	SearchRequestsTable = "search_requests"
	// SearchRequestsInverseTable is the table name for the SearchRequest entity.
	// It exists in this package in order to avoid circular dependency with the "searchrequest" package.
	SearchRequestsInverseTable = "search_requests"
	// SearchRequestsColumn is the table column denoting the search_requests relation/edge.
	SearchRequestsColumn = "collection_id"
)

// Columns holds all SQL columns for collection fields.
var Columns = []string{
	FieldID,
	FieldSlug,
	FieldName,
	FieldOrganizationID,
	FieldVectorSize,
	FieldCreatedAt,
}

// ValidColumn reports if the column name is valid (part of the table columns).
func ValidColumn(column string) bool {
	for i := range Columns {
		if column == Columns[i] {
			return true
		}
	}
	return false
}

var (
	// DefaultVectorSize holds the default value on creation for the "vector_size" field.
	DefaultVectorSize int
	// DefaultCreatedAt holds the default value on creation for the "created_at" field.
	DefaultCreatedAt func() time.Time
)

// OrderOption defines the ordering options for the Collection queries.
type OrderOption func(*sql.Selector)

// ByID orders the results by the id field.
func ByID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldID, opts...).ToFunc()
}

// BySlug orders the results by the slug field.
func BySlug(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldSlug, opts...).ToFunc()
}

// ByName orders the results by the name field.
func ByName(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldName, opts...).ToFunc()
}

// ByOrganizationID orders the results by the organization_id field.
func ByOrganizationID(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldOrganizationID, opts...).ToFunc()
}

// ByVectorSize orders the results by the vector_size field.
func ByVectorSize(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldVectorSize, opts...).ToFunc()
}

// ByCreatedAt orders the results by the created_at field.
func ByCreatedAt(opts ...sql.OrderTermOption) OrderOption {
	return sql.OrderByField(FieldCreatedAt, opts...).ToFunc()
}

// ByOrganizationField orders the results by organization field.
func ByOrganizationField(field string, opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newOrganizationStep(), sql.OrderByField(field, opts...))
	}
}

// BySearchRequestsCount orders the results by search_requests count.
func BySearchRequestsCount(opts ...sql.OrderTermOption) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborsCount(s, newSearchRequestsStep(), opts...)
	}
}

// BySearchRequests orders the results by search_requests terms.
func BySearchRequests(term sql.OrderTerm, terms ...sql.OrderTerm) OrderOption {
	return func(s *sql.Selector) {
		sqlgraph.OrderByNeighborTerms(s, newSearchRequestsStep(), append([]sql.OrderTerm{term}, terms...)...)
	}
}
func newOrganizationStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(OrganizationInverseTable, OrganizationFieldID),
		sqlgraph.Edge(sqlgraph.M2O, true, OrganizationTable, OrganizationColumn),
	)
}
func newSearchRequestsStep() *sqlgraph.Step {
	return sqlgraph.NewStep(
		sqlgraph.From(Table, FieldID),
		sqlgraph.To(SearchRequestsInverseTable, SearchRequestFieldID),
		sqlgraph.Edge(sqlgraph.O2M, false, SearchRequestsTable, SearchRequestsColumn),
	)
}

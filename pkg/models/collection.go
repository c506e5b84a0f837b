package models

import (
	"github.com/Zeeeepa/airweave/ent"
)

// CreateCollectionRequest contains fields for creating a new collection
type CreateCollectionRequest struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	VectorSize int    `json:"vector_size,omitempty"`
}

// CollectionListResponse contains a paginated collection list
type CollectionListResponse struct {
	Collections []*ent.Collection `json:"collections"`
	TotalCount  int               `json:"total_count"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
}

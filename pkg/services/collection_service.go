package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/collection"
	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/models"
	"github.com/google/uuid"
)

// slugPattern is the shape of a collection slug: lowercase alphanumerics
// separated by single hyphens or underscores.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

const (
	minSlugLength = 3
	maxSlugLength = 64

	defaultVectorSize = 1536
	maxVectorSize     = 8192
)

// VectorStore is the subset of the Qdrant client used by CollectionService.
type VectorStore interface {
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error
	DeleteCollection(ctx context.Context, name string) error
}

// CollectionService manages collection lifecycle. Every collection is
// backed by a Qdrant collection named after its ID (slugs are only unique
// per organization, IDs are global).
type CollectionService struct {
	client  *ent.Client
	vectors VectorStore
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(client *ent.Client, vectors VectorStore) *CollectionService {
	return &CollectionService{client: client, vectors: vectors}
}

// CreateCollection creates a collection row and its backing Qdrant
// collection. If the vector store call fails the row is rolled back so
// a retry starts clean.
func (s *CollectionService) CreateCollection(httpCtx context.Context, reqCtx *auth.RequestContext, req models.CreateCollectionRequest) (*ent.Collection, error) {
	// Validate input
	if req.Slug == "" {
		return nil, NewValidationError("slug", "required")
	}
	if len(req.Slug) < minSlugLength || len(req.Slug) > maxSlugLength {
		return nil, NewValidationError("slug", fmt.Sprintf("must be %d-%d characters", minSlugLength, maxSlugLength))
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, NewValidationError("slug", "must be lowercase alphanumerics separated by '-' or '_'")
	}
	if req.Name == "" {
		return nil, NewValidationError("name", "required")
	}
	vectorSize := req.VectorSize
	if vectorSize == 0 {
		vectorSize = defaultVectorSize
	}
	if vectorSize < 1 || vectorSize > maxVectorSize {
		return nil, NewValidationError("vector_size", fmt.Sprintf("must be between 1 and %d", maxVectorSize))
	}

	// Use background context with timeout for critical write
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	col, err := s.client.Collection.Create().
		SetID(uuid.New().String()).
		SetSlug(req.Slug).
		SetName(req.Name).
		SetOrganizationID(reqCtx.Organization.ID).
		SetVectorSize(vectorSize).
		SetCreatedAt(time.Now()).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	if s.vectors != nil {
		if err := s.vectors.EnsureCollection(ctx, col.ID, uint64(vectorSize)); err != nil {
			if delErr := s.client.Collection.DeleteOneID(col.ID).Exec(ctx); delErr != nil {
				reqCtx.Log().Error("Failed to roll back collection row after vector store error",
					"collection_id", col.ID, "error", delErr)
			}
			return nil, fmt.Errorf("failed to create vector store collection: %w", err)
		}
	}

	return col, nil
}

// GetCollection retrieves a collection by slug within the caller's organization
func (s *CollectionService) GetCollection(ctx context.Context, reqCtx *auth.RequestContext, slug string) (*ent.Collection, error) {
	col, err := s.client.Collection.Query().
		Where(
			collection.OrganizationIDEQ(reqCtx.Organization.ID),
			collection.SlugEQ(slug),
		).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	return col, nil
}

// ListCollections lists the caller's collections with pagination
func (s *CollectionService) ListCollections(ctx context.Context, reqCtx *auth.RequestContext, limit, offset int) (*models.CollectionListResponse, error) {
	query := s.client.Collection.Query().
		Where(collection.OrganizationIDEQ(reqCtx.Organization.ID))

	totalCount, err := query.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}

	if limit <= 0 {
		limit = 20 // Default
	}
	if offset < 0 {
		offset = 0
	}

	collections, err := query.
		Limit(limit).
		Offset(offset).
		Order(ent.Desc(collection.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	return &models.CollectionListResponse{
		Collections: collections,
		TotalCount:  totalCount,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// DeleteCollection removes a collection and its backing Qdrant collection.
// The vector store delete is best effort: a dangling Qdrant collection is
// unreachable once the row is gone.
func (s *CollectionService) DeleteCollection(httpCtx context.Context, reqCtx *auth.RequestContext, slug string) error {
	col, err := s.GetCollection(httpCtx, reqCtx, slug)
	if err != nil {
		return err
	}

	// Use background context with timeout for critical write
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.client.Collection.DeleteOneID(col.ID).Exec(ctx); err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	if s.vectors != nil {
		if err := s.vectors.DeleteCollection(ctx, col.ID); err != nil {
			slog.Warn("Failed to delete vector store collection",
				"collection_id", col.ID, "error", err)
		}
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Zeeeepa/airweave/pkg/models"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionService_CreateCollection(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	reqCtx := testRequestContext(org)
	ctx := context.Background()

	t.Run("creates collection and vector store", func(t *testing.T) {
		store := &fakeVectorStore{}
		svc := NewCollectionService(client.Client, store)

		col, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "engineering-docs",
			Name: "Engineering Docs",
		})
		require.NoError(t, err)
		assert.Equal(t, "engineering-docs", col.Slug)
		assert.Equal(t, org.ID, col.OrganizationID)
		assert.Equal(t, 1536, col.VectorSize, "default vector size applied")
		require.Len(t, store.ensured, 1)
		assert.Equal(t, col.ID, store.ensured[0], "vector collection named by ID")
	})

	t.Run("custom vector size", func(t *testing.T) {
		svc := NewCollectionService(client.Client, &fakeVectorStore{})
		col, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug:       "small-vectors",
			Name:       "Small",
			VectorSize: 384,
		})
		require.NoError(t, err)
		assert.Equal(t, 384, col.VectorSize)
	})

	t.Run("duplicate slug in same org", func(t *testing.T) {
		svc := NewCollectionService(client.Client, &fakeVectorStore{})
		_, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "dup-slug", Name: "First",
		})
		require.NoError(t, err)

		_, err = svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "dup-slug", Name: "Second",
		})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("same slug in another org is allowed", func(t *testing.T) {
		svc := NewCollectionService(client.Client, &fakeVectorStore{})
		otherOrg := seedTestOrg(t, client.Client)

		_, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "shared-slug", Name: "Mine",
		})
		require.NoError(t, err)

		_, err = svc.CreateCollection(ctx, testRequestContext(otherOrg), models.CreateCollectionRequest{
			Slug: "shared-slug", Name: "Theirs",
		})
		assert.NoError(t, err)
	})

	t.Run("vector store failure rolls back the row", func(t *testing.T) {
		store := &fakeVectorStore{ensureErr: errors.New("qdrant down")}
		svc := NewCollectionService(client.Client, store)

		_, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "doomed", Name: "Doomed",
		})
		require.Error(t, err)

		_, err = svc.GetCollection(ctx, reqCtx, "doomed")
		assert.ErrorIs(t, err, ErrNotFound, "row must not survive vector store failure")
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewCollectionService(client.Client, &fakeVectorStore{})
		tests := []struct {
			name string
			req  models.CreateCollectionRequest
		}{
			{"missing slug", models.CreateCollectionRequest{Name: "n"}},
			{"slug too short", models.CreateCollectionRequest{Slug: "ab", Name: "n"}},
			{"uppercase slug", models.CreateCollectionRequest{Slug: "My-Docs", Name: "n"}},
			{"slug with spaces", models.CreateCollectionRequest{Slug: "my docs", Name: "n"}},
			{"trailing hyphen", models.CreateCollectionRequest{Slug: "docs-", Name: "n"}},
			{"missing name", models.CreateCollectionRequest{Slug: "docs"}},
			{"negative vector size", models.CreateCollectionRequest{Slug: "docs", Name: "n", VectorSize: -1}},
			{"oversized vectors", models.CreateCollectionRequest{Slug: "docs", Name: "n", VectorSize: 100000}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateCollection(ctx, reqCtx, tt.req)
				assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
			})
		}
	})
}

func TestCollectionService_GetCollection(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	reqCtx := testRequestContext(org)
	svc := NewCollectionService(client.Client, &fakeVectorStore{})
	ctx := context.Background()

	created, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
		Slug: "docs", Name: "Docs",
	})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		col, err := svc.GetCollection(ctx, reqCtx, "docs")
		require.NoError(t, err)
		assert.Equal(t, created.ID, col.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetCollection(ctx, reqCtx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("scoped to caller org", func(t *testing.T) {
		otherOrg := seedTestOrg(t, client.Client)
		_, err := svc.GetCollection(ctx, testRequestContext(otherOrg), "docs")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCollectionService_ListCollections(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	reqCtx := testRequestContext(org)
	svc := NewCollectionService(client.Client, &fakeVectorStore{})
	ctx := context.Background()

	for _, slug := range []string{"alpha", "beta", "gamma"} {
		_, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: slug, Name: slug,
		})
		require.NoError(t, err)
	}
	// A collection in another org must not leak into the listing.
	otherOrg := seedTestOrg(t, client.Client)
	_, err := svc.CreateCollection(ctx, testRequestContext(otherOrg), models.CreateCollectionRequest{
		Slug: "other", Name: "Other",
	})
	require.NoError(t, err)

	t.Run("lists own collections", func(t *testing.T) {
		resp, err := svc.ListCollections(ctx, reqCtx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalCount)
		assert.Len(t, resp.Collections, 3)
		assert.Equal(t, 20, resp.Limit, "default limit applied")
	})

	t.Run("pagination", func(t *testing.T) {
		resp, err := svc.ListCollections(ctx, reqCtx, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalCount)
		assert.Len(t, resp.Collections, 2)

		rest, err := svc.ListCollections(ctx, reqCtx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest.Collections, 1)
	})
}

func TestCollectionService_DeleteCollection(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	reqCtx := testRequestContext(org)
	ctx := context.Background()

	t.Run("deletes row and vector store", func(t *testing.T) {
		store := &fakeVectorStore{}
		svc := NewCollectionService(client.Client, store)
		col, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "to-delete", Name: "To Delete",
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCollection(ctx, reqCtx, "to-delete"))
		_, err = svc.GetCollection(ctx, reqCtx, "to-delete")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, []string{col.ID}, store.deleted)
	})

	t.Run("vector store failure does not fail the delete", func(t *testing.T) {
		store := &fakeVectorStore{deleteErr: errors.New("qdrant down")}
		svc := NewCollectionService(client.Client, store)
		_, err := svc.CreateCollection(ctx, reqCtx, models.CreateCollectionRequest{
			Slug: "half-gone", Name: "Half Gone",
		})
		require.NoError(t, err)

		assert.NoError(t, svc.DeleteCollection(ctx, reqCtx, "half-gone"))
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewCollectionService(client.Client, &fakeVectorStore{})
		assert.ErrorIs(t, svc.DeleteCollection(ctx, reqCtx, "missing"), ErrNotFound)
	})
}

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// seedTestOrg creates an organization for service tests.
func seedTestOrg(t *testing.T, client *ent.Client) *ent.Organization {
	t.Helper()
	org, err := client.Organization.Create().
		SetID(uuid.New().String()).
		SetName("Acme").
		Save(context.Background())
	require.NoError(t, err)
	return org
}

// seedTestUser creates a user in the given organization.
func seedTestUser(t *testing.T, client *ent.Client, org *ent.Organization) *ent.User {
	t.Helper()
	u, err := client.User.Create().
		SetID(uuid.New().String()).
		SetEmail(uuid.New().String() + "@example.com").
		SetFullName("Test User").
		SetOrganizationID(org.ID).
		Save(context.Background())
	require.NoError(t, err)
	return u
}

// testRequestContext builds an API-key request context for the organization.
func testRequestContext(org *ent.Organization) *auth.RequestContext {
	return &auth.RequestContext{
		RequestID:    uuid.New().String(),
		Method:       auth.MethodAPIKey,
		Organization: auth.Organization{ID: org.ID, Name: org.Name},
	}
}

// fakeVectorStore implements VectorStore for tests.
type fakeVectorStore struct {
	mu        sync.Mutex
	ensured   []string
	deleted   []string
	ensureErr error
	deleteErr error
}

func (f *fakeVectorStore) EnsureCollection(_ context.Context, name string, _ uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured = append(f.ensured, name)
	return nil
}

func (f *fakeVectorStore) DeleteCollection(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

// stubChat implements openai.ChatCompleter for tests.
type stubChat struct {
	response string
	err      error
}

func (s *stubChat) Complete(context.Context, openai.CompletionRequest) (string, error) {
	return s.response, s.err
}

// stubEmbedder implements openai.Embedder for tests.
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

// stubSearcher implements qdrant.Searcher for tests.
type stubSearcher struct {
	mu         sync.Mutex
	results    []qdrant.ScoredResult
	err        error
	lastParams qdrant.QueryParams
}

func (s *stubSearcher) Query(_ context.Context, params qdrant.QueryParams) ([]qdrant.ScoredResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

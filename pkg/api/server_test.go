package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/models"
	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/queue"
	"github.com/Zeeeepa/airweave/pkg/search"
	"github.com/Zeeeepa/airweave/pkg/services"
	testdb "github.com/Zeeeepa/airweave/test/database"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeChat implements openai.ChatCompleter with canned text.
type fakeChat struct {
	response string
}

func (f *fakeChat) Complete(context.Context, openai.CompletionRequest) (string, error) {
	return f.response, nil
}

// fakeEmbedder implements openai.Embedder with a fixed vector.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeSearcher implements qdrant.Searcher over an in-memory result set.
type fakeSearcher struct {
	results []qdrant.ScoredResult
	err     error
}

func (f *fakeSearcher) Query(context.Context, qdrant.QueryParams) ([]qdrant.ScoredResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// testServer bundles a fully wired Server with the handles tests need.
type testServer struct {
	server   *Server
	dbClient *database.Client
	org      *ent.Organization
	apiKey   string
	searcher *fakeSearcher
}

// newTestServer builds a Server over a real test database. The chat seam
// returns canned text and the vector seam serves from ts.searcher.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	dbClient := testdb.NewTestClient(t)

	org, err := dbClient.Client.Organization.Create().
		SetID(uuid.New().String()).
		SetName("HTTP Test Org").
		Save(ctx)
	require.NoError(t, err)

	apiKeySvc := services.NewAPIKeyService(dbClient.Client)
	plaintext, _, err := apiKeySvc.CreateAPIKey(ctx, org.ID, "", nil)
	require.NoError(t, err)

	searcher := &fakeSearcher{}
	searchSvc := services.NewSearchService(
		dbClient,
		search.NewExecutor(nil, nil),
		config.DefaultSearchDefaults(),
		&fakeChat{response: "stub answer"},
		fakeEmbedder{},
		searcher,
	)
	collectionSvc := services.NewCollectionService(dbClient.Client, nil)

	srv := NewServer(nil, dbClient, collectionSvc, searchSvc, apiKeySvc, nil, nil)

	return &testServer{
		server:   srv,
		dbClient: dbClient,
		org:      org,
		apiKey:   plaintext,
		searcher: searcher,
	}
}

// do performs an authenticated request against the full middleware chain.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.apiKey)
	rec := httptest.NewRecorder()
	ts.server.engine.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServerRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/collections", nil)
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/collections", nil)
		req.Header.Set("X-API-Key", "bogus")
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health needs no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServerCollectionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/collections", models.CreateCollectionRequest{
		Slug: "docs", Name: "Docs",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeInto[map[string]any](t, rec)
	assert.Equal(t, "docs", created["slug"])

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/collections", models.CreateCollectionRequest{
			Slug: "docs", Name: "Docs Again",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid slug rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/collections", models.CreateCollectionRequest{
			Slug: "Not A Slug!", Name: "Bad",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/collections", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeInto[models.CollectionListResponse](t, rec)
		assert.Equal(t, 1, list.TotalCount)
		require.Len(t, list.Collections, 1)
		assert.Equal(t, "docs", list.Collections[0].Slug)
	})

	t.Run("get by slug", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/collections/docs", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "docs")
	})

	t.Run("delete then gone", func(t *testing.T) {
		rec := ts.do(t, http.MethodDelete, "/api/v1/collections/docs", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.do(t, http.MethodGet, "/api/v1/collections/docs", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServerSyncSearch(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/v1/collections", models.CreateCollectionRequest{
		Slug: "docs", Name: "Docs",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	ts.searcher.results = []qdrant.ScoredResult{
		{ID: "r1", Score: 0.95, Payload: map[string]any{"content": "alpha"}},
		{ID: "r2", Score: 0.80, Payload: map[string]any{"content": "beta"}},
	}

	body := map[string]any{"query": "hello", "expand_query": false, "rerank": false}

	t.Run("returns results inline", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/collections/docs/search", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeInto[models.SearchResponse](t, rec)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "r1", resp.Results[0].ID)
		require.NotNil(t, resp.Execution)
		assert.Positive(t, resp.Execution.OperationsExecuted)
	})

	t.Run("unknown collection", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/collections/missing/search", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid stream flag", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/collections/docs/search?stream=banana", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/collections/docs/search", strings.NewReader("{not json"))
		req.Header.Set("Authorization", "Bearer "+ts.apiKey)
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServerStreamingSearch(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	rec := ts.do(t, http.MethodPost, "/api/v1/collections", models.CreateCollectionRequest{
		Slug: "docs", Name: "Docs",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := map[string]any{"query": "hello streaming"}
	rec = ts.do(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	ack := decodeInto[models.StreamingSearchAck](t, rec)
	require.NotEmpty(t, ack.RequestID)
	assert.Equal(t, "search:"+ack.RequestID, ack.Channel)
	assert.Equal(t, "pending", ack.Status)

	row, err := ts.dbClient.Client.SearchRequest.Get(ctx, ack.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "pending", string(row.Status))
	assert.Equal(t, ts.org.ID, row.OrganizationID)
	assert.Equal(t, "hello streaming", row.Query)

	t.Run("status endpoint", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/search/requests/"+ack.RequestID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "pending")
	})

	t.Run("list endpoint with filters", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/search/requests?status=pending&collection=docs", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeInto[models.SearchRequestListResponse](t, rec)
		assert.Equal(t, 1, list.TotalCount)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/search/requests?status=bogus", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown request id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/search/requests/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServerHealth(t *testing.T) {
	ts := newTestServer(t)

	t.Run("healthy without pool", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeInto[HealthResponse](t, rec)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "healthy", resp.Checks["database"].Status)
		assert.NotEmpty(t, resp.Version)
		assert.Nil(t, resp.WorkerPool)
	})

	t.Run("degraded with empty pool", func(t *testing.T) {
		cfg := config.DefaultQueueConfig()
		ts.server.workerPool = queue.NewWorkerPool("health-pod", ts.dbClient.Client, cfg, nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)

		// An unstarted pool has zero workers: degraded but still serving.
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeInto[HealthResponse](t, rec)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "degraded", resp.Checks["worker_pool"].Status)
		require.NotNil(t, resp.WorkerPool)
		assert.Zero(t, resp.WorkerPool.TotalWorkers)
	})
}

func TestServerSecurityHeadersApplied(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.server.engine.ServeHTTP(rec, req)

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestServerWebSocket(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unavailable without manager", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		rec := httptest.NewRecorder()
		ts.server.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("upgrade and greeting", func(t *testing.T) {
		ts.server.connManager = events.NewConnectionManager(nil, 5*time.Second)

		httpSrv := httptest.NewServer(ts.server.engine)
		defer httpSrv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "done")

		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Contains(t, string(data), "connection.established")
	})
}

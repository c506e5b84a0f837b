// Package e2e boots a complete Airweave instance against a real PostgreSQL
// (via testcontainers) with scripted LLM and vector-store fakes, and
// exercises the HTTP API and the WebSocket stream end to end.
package e2e

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/pkg/api"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/queue"
	"github.com/Zeeeepa/airweave/pkg/search"
	"github.com/Zeeeepa/airweave/pkg/services"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/Zeeeepa/airweave/test/util"
)

// TestApp boots a complete Airweave instance for e2e testing.
type TestApp struct {
	// Core
	Settings  *config.Settings
	DBClient  *database.Client
	EntClient *ent.Client

	// Mocks / test wiring
	Chat    *ScriptedChat
	Vectors *FakeVectorStore
	Tracker *RecordingTracker

	// Real infrastructure
	Publisher      *events.Publisher
	ConnManager    *events.ConnectionManager
	NotifyListener *events.NotifyListener
	WorkerPool     *queue.WorkerPool
	SearchService  *services.SearchService
	EventService   *services.EventService
	Server         *api.Server

	// Seeded tenant
	Org        *ent.Organization
	User       *ent.User
	APIKey     string // plaintext, for Authorization headers
	Collection *ent.Collection

	// Runtime
	BaseURL string // e.g. "http://127.0.0.1:54321"
	WSURL   string // e.g. "ws://127.0.0.1:54321/ws"

	t *testing.T
}

// testAppConfig holds options accumulated before creating the TestApp.
type testAppConfig struct {
	workerCount   int
	searchTimeout time.Duration
	chat          *ScriptedChat
	vectors       *FakeVectorStore
	dbClient      *database.Client
	podID         string
}

// TestAppOption configures the test app.
type TestAppOption func(*testAppConfig)

// WithWorkerCount sets the number of worker pool goroutines.
func WithWorkerCount(n int) TestAppOption {
	return func(c *testAppConfig) { c.workerCount = n }
}

// WithSearchTimeout bounds one streaming pipeline run.
func WithSearchTimeout(d time.Duration) TestAppOption {
	return func(c *testAppConfig) { c.searchTimeout = d }
}

// WithChat sets a pre-scripted chat client.
func WithChat(chat *ScriptedChat) TestAppOption {
	return func(c *testAppConfig) { c.chat = chat }
}

// WithVectors sets a pre-seeded vector store fake.
func WithVectors(v *FakeVectorStore) TestAppOption {
	return func(c *testAppConfig) { c.vectors = v }
}

// WithDBClient injects a pre-created database client, skipping the default
// per-test schema creation. Used for multi-replica tests where multiple
// TestApp instances share the same database schema.
func WithDBClient(client *database.Client) TestAppOption {
	return func(c *testAppConfig) { c.dbClient = client }
}

// WithPodID overrides the auto-generated pod ID so multi-replica tests get
// distinct worker identities.
func WithPodID(id string) TestAppOption {
	return func(c *testAppConfig) { c.podID = id }
}

// NewTestApp creates and starts a full Airweave test instance. Shutdown is
// registered via t.Cleanup automatically.
func NewTestApp(t *testing.T, opts ...TestAppOption) *TestApp {
	t.Helper()

	tc := &testAppConfig{
		workerCount:   1,
		searchTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(tc)
	}
	if tc.chat == nil {
		tc.chat = NewScriptedChat()
	}
	if tc.vectors == nil {
		tc.vectors = NewFakeVectorStore(DefaultCorpus())
	}

	settings := testSettings(tc)

	// 1. Database.
	dbClient := tc.dbClient
	if dbClient == nil {
		dbClient = testdb.NewTestClient(t)
	}
	entClient := dbClient.Client

	// 2. Event publishing — real, backed by the test DB.
	publisher := events.NewPublisher(dbClient.DB())

	// 3. Streaming infrastructure.
	eventService := services.NewEventService(entClient)
	adapter := events.NewEventServiceAdapter(eventService)
	connManager := events.NewConnectionManager(adapter, 5*time.Second)

	// 4. NotifyListener — real, dedicated pgx connection.
	notifyListener := events.NewNotifyListener(util.GetBaseConnectionString(t), connManager)
	ctx := context.Background()
	require.NoError(t, notifyListener.Start(ctx))
	connManager.SetListener(notifyListener)

	// 5. Pipeline executor with a recording analytics sink.
	tracker := NewRecordingTracker()
	executor := search.NewExecutor(publisher, tracker)

	// 6. Domain services.
	collectionService := services.NewCollectionService(entClient, tc.vectors)
	searchService := services.NewSearchService(dbClient, executor, settings.Search,
		tc.chat, StaticEmbedder{Dim: 8}, tc.vectors)
	apiKeyService := services.NewAPIKeyService(entClient)

	// 7. Worker pool.
	podID := tc.podID
	if podID == "" {
		podID = fmt.Sprintf("e2e-%s", t.Name())
	}
	workerPool := queue.NewWorkerPool(podID, entClient, settings.Queue,
		searchService, eventService, publisher)
	require.NoError(t, workerPool.Start(ctx))

	// 8. HTTP server on a random port.
	server := api.NewServer(settings, dbClient, collectionService, searchService,
		apiKeyService, workerPool, connManager)
	server.SetPublisher(publisher)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = server.StartWithListener(ln)
	}()

	addr := ln.Addr().String()

	app := &TestApp{
		Settings:       settings,
		DBClient:       dbClient,
		EntClient:      entClient,
		Chat:           tc.chat,
		Vectors:        tc.vectors,
		Tracker:        tracker,
		Publisher:      publisher,
		ConnManager:    connManager,
		NotifyListener: notifyListener,
		WorkerPool:     workerPool,
		SearchService:  searchService,
		EventService:   eventService,
		Server:         server,
		BaseURL:        fmt.Sprintf("http://%s", addr),
		WSURL:          fmt.Sprintf("ws://%s/ws", addr),
		t:              t,
	}

	seedTenant(t, app, apiKeyService)

	// Cleanup in reverse-creation order.
	t.Cleanup(func() {
		workerPool.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		notifyListener.Stop(shutdownCtx)
	})

	return app
}

// testSettings builds settings tuned for fast tests: short poll intervals,
// no rate limiting, no analytics key (the harness injects a recorder).
func testSettings(tc *testAppConfig) *config.Settings {
	return &config.Settings{
		Environment: "development",
		Search: config.SearchDefaults{
			DefaultLimit:   10,
			MaxLimit:       100,
			ExpansionCount: 3,
			RerankTopK:     20,
			OperatorBudget: 10 * time.Second,
		},
		Queue: &config.QueueConfig{
			WorkerCount:             tc.workerCount,
			PollInterval:            100 * time.Millisecond,
			PollIntervalJitter:      50 * time.Millisecond,
			SearchTimeout:           tc.searchTimeout,
			GracefulShutdownTimeout: 10 * time.Second,
			EventCleanupGrace:       time.Hour, // keep stream events around for assertions
			OrphanScanInterval:      time.Minute,
		},
		Retention: config.DefaultRetentionConfig(),
	}
}

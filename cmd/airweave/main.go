// Airweave search server — serves the collection and search HTTP API, runs
// queue workers for streaming searches, and broadcasts progress over
// WebSockets.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/api"
	"github.com/Zeeeepa/airweave/pkg/cleanup"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/queue"
	"github.com/Zeeeepa/airweave/pkg/search"
	"github.com/Zeeeepa/airweave/pkg/services"
	"github.com/Zeeeepa/airweave/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// resolvePodID determines the pod identifier for multi-replica coordination.
// Priority: POD_ID env > HOSTNAME env > "local"
func resolvePodID() string {
	if id := os.Getenv("POD_ID"); id != "" {
		return id
	}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		return hostname
	}
	return "local"
}

func main() {
	// Parse command-line flags
	envFile := flag.String("env-file",
		getEnv("ENV_FILE", ".env"),
		"Path to .env file")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(*envFile); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", *envFile, "error", err)
	} else {
		slog.Info("Loaded environment", "path", *envFile)
	}

	podID := resolvePodID()
	ctx := context.Background()

	// 1. Load settings
	settings, err := config.Load()
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}
	if settings.Environment == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	slog.Info("Starting Airweave",
		"version", version.Full(),
		"pod_id", podID,
		"environment", settings.Environment)

	// 2. Initialize database (runs migrations)
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// 3. One-time startup orphan cleanup
	if err := queue.CleanupStartupOrphans(ctx, dbClient.Client, podID); err != nil {
		slog.Error("Failed to cleanup startup orphans", "error", err)
		// Non-fatal, continue
	}

	// 4. External clients: vector store, LLM, analytics
	qdrantClient, err := qdrant.NewClient(qdrant.Config{
		Host:   settings.Qdrant.Host,
		Port:   settings.Qdrant.Port,
		APIKey: settings.Qdrant.APIKey,
		UseTLS: settings.Qdrant.UseTLS,
	}, nil)
	if err != nil {
		slog.Error("Failed to create Qdrant client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := qdrantClient.Close(); err != nil {
			slog.Error("Error closing Qdrant client", "error", err)
		}
	}()

	openaiClient, err := openai.NewClient(openai.Config{
		APIKey:         settings.OpenAI.APIKey,
		ChatModel:      settings.OpenAI.ChatModel,
		EmbeddingModel: settings.OpenAI.EmbeddingModel,
	}, nil)
	if err != nil {
		slog.Error("Failed to create OpenAI client", "error", err)
		os.Exit(1)
	}

	var tracker analytics.Tracker = analytics.NewNoopTracker()
	if settings.PostHog.APIKey != "" {
		phTracker, err := analytics.NewPostHogTracker(settings.PostHog.APIKey, settings.PostHog.Endpoint, nil)
		if err != nil {
			slog.Warn("Failed to initialize PostHog, analytics disabled", "error", err)
		} else {
			tracker = phTracker
		}
	}
	defer func() {
		if err := tracker.Close(); err != nil {
			slog.Error("Error closing analytics tracker", "error", err)
		}
	}()

	// 5. Initialize streaming infrastructure
	eventService := services.NewEventService(dbClient.Client)
	eventPublisher := events.NewPublisher(dbClient.DB())
	catchupQuerier := events.NewEventServiceAdapter(eventService)
	connManager := events.NewConnectionManager(catchupQuerier, 10*time.Second)

	// Start NotifyListener (dedicated pgx connection for LISTEN)
	notifyListener := events.NewNotifyListener(dbConfig.ConnString(), connManager)
	if err := notifyListener.Start(ctx); err != nil {
		slog.Error("Failed to start NotifyListener", "error", err)
		os.Exit(1)
	}
	defer notifyListener.Stop(ctx)

	// Wire listener ↔ manager bidirectional link
	connManager.SetListener(notifyListener)
	slog.Info("Streaming infrastructure initialized")

	// 6. Domain services
	executor := search.NewExecutor(eventPublisher, tracker)
	collectionService := services.NewCollectionService(dbClient.Client, qdrantClient)
	searchService := services.NewSearchService(dbClient, executor, settings.Search,
		openaiClient, openaiClient, qdrantClient)
	apiKeyService := services.NewAPIKeyService(dbClient.Client)
	slog.Info("Services initialized")

	if settings.Environment == "development" {
		bootstrapDevCredentials(ctx, dbClient.Client, apiKeyService)
	}

	// 7. Start worker pool (before HTTP server)
	workerPool := queue.NewWorkerPool(podID, dbClient.Client, settings.Queue,
		searchService, eventService, eventPublisher)
	if err := workerPool.Start(ctx); err != nil {
		slog.Error("Failed to start worker pool", "error", err)
		os.Exit(1)
	}

	// 8. Start retention cleanup
	cleanupService := cleanup.NewService(settings.Retention, searchService, eventService)
	cleanupService.Start(ctx)
	defer cleanupService.Stop()

	// 9. Create HTTP server
	httpServer := api.NewServer(settings, dbClient, collectionService, searchService,
		apiKeyService, workerPool, connManager)
	httpServer.SetPublisher(eventPublisher)

	if settings.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     settings.Redis.Addr,
			Password: settings.Redis.Password,
			DB:       settings.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Error closing Redis client", "error", err)
			}
		}()
		httpServer.SetRateLimiter(api.NewRateLimiter(redisClient, settings.RateLimit.RequestsPerMinute))
		slog.Info("Rate limiting enabled",
			"requests_per_minute", settings.RateLimit.RequestsPerMinute,
			"redis_addr", settings.Redis.Addr)
	}

	// 10. Start HTTP server (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		addr := settings.APIHost + ":" + strconv.Itoa(settings.APIPort)
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("Airweave started successfully",
		"pod_id", podID,
		"workers", settings.Queue.WorkerCount)

	// 11. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 12. Graceful shutdown
	workerShutdownCtx, workerCancel := context.WithTimeout(ctx, settings.Queue.GracefulShutdownTimeout)
	defer workerCancel()

	// Stop worker pool (wait for active searches to complete)
	done := make(chan struct{})
	go func() {
		workerPool.Stop()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Worker pool stopped gracefully")
	case <-workerShutdownCtx.Done():
		slog.Warn("Shutdown timeout exceeded, incomplete searches will be orphan-recovered")
	}

	// Stop HTTP server with its own timeout budget
	httpShutdownCtx, httpCancel := context.WithTimeout(ctx, 5*time.Second)
	defer httpCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// bootstrapDevCredentials seeds a default organization and API key on an
// empty development database and logs the plaintext key once.
func bootstrapDevCredentials(ctx context.Context, client *ent.Client, apiKeys *services.APIKeyService) {
	count, err := client.Organization.Query().Count(ctx)
	if err != nil {
		slog.Warn("Could not check for existing organizations", "error", err)
		return
	}
	if count > 0 {
		return
	}

	org, err := client.Organization.Create().
		SetID(uuid.New().String()).
		SetName("Default Organization").
		Save(ctx)
	if err != nil {
		slog.Warn("Could not create development organization", "error", err)
		return
	}

	plaintext, _, err := apiKeys.CreateAPIKey(ctx, org.ID, "", nil)
	if err != nil {
		slog.Warn("Could not create development API key", "error", err)
		return
	}

	slog.Info("Created development organization and API key",
		"organization_id", org.ID,
		"api_key", plaintext)
}

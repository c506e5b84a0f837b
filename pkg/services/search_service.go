package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	qdrantgo "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/collection"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/models"
	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
	"github.com/Zeeeepa/airweave/pkg/search/operations"
	"github.com/google/uuid"
)

// SearchService turns API search requests into pipeline configurations and
// runs or enqueues them. The synchronous path executes inline; the streaming
// path persists a pending search_requests row for the worker pool.
type SearchService struct {
	db       *database.Client
	executor *search.Executor
	defaults config.SearchDefaults
	chat     openai.ChatCompleter
	embedder openai.Embedder
	vectors  qdrant.Searcher
}

// NewSearchService creates a new SearchService
func NewSearchService(db *database.Client, executor *search.Executor, defaults config.SearchDefaults, chat openai.ChatCompleter, embedder openai.Embedder, vectors qdrant.Searcher) *SearchService {
	return &SearchService{
		db:       db,
		executor: executor,
		defaults: defaults,
		chat:     chat,
		embedder: embedder,
		vectors:  vectors,
	}
}

// BuildConfig validates an API search request against a collection and
// assembles the pipeline configuration: defaults applied, operator slots
// populated from the request flags.
func (s *SearchService) BuildConfig(col *ent.Collection, req models.SearchRequest) (*search.SearchConfig, error) {
	if req.Query == "" {
		return nil, NewValidationError("query", "required")
	}
	if req.Limit < 0 {
		return nil, NewValidationError("limit", "must not be negative")
	}
	if req.Limit > s.defaults.MaxLimit {
		return nil, NewValidationError("limit", fmt.Sprintf("must not exceed %d", s.defaults.MaxLimit))
	}
	if req.Offset < 0 {
		return nil, NewValidationError("offset", "must not be negative")
	}
	if req.ScoreThreshold != nil && (*req.ScoreThreshold < 0 || *req.ScoreThreshold > 1) {
		return nil, NewValidationError("score_threshold", "must be between 0 and 1")
	}
	if req.RecencyBias != nil && (*req.RecencyBias < 0 || *req.RecencyBias > 1) {
		return nil, NewValidationError("recency_bias", "must be between 0 and 1")
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.defaults.DefaultLimit
	}

	cfg := &search.SearchConfig{
		Query:          req.Query,
		Limit:          limit,
		Offset:         req.Offset,
		ScoreThreshold: req.ScoreThreshold,
		CollectionSlug: col.Slug,
		OperatorBudget: s.defaults.OperatorBudget,

		Embedding:    operations.NewEmbedding(s.embedder),
		VectorSearch: operations.NewVectorSearch(s.vectors, col.ID),
	}

	if boolFlag(req.ExpandQuery, true) {
		cfg.QueryExpansion = operations.NewQueryExpansion(s.chat, s.defaults.ExpansionCount)
	}
	if boolFlag(req.InterpretFilters, false) {
		cfg.QueryInterpretation = operations.NewQueryInterpretation(s.chat)
	}
	if len(req.Filter) > 0 {
		filter, err := parseFilter(req.Filter)
		if err != nil {
			return nil, NewValidationError("filter", err.Error())
		}
		cfg.QdrantFilter = operations.NewQdrantFilter(filter)
	}
	if req.RecencyBias != nil && *req.RecencyBias > 0 {
		cfg.Recency = operations.NewRecency("", *req.RecencyBias)
	}
	if boolFlag(req.Rerank, true) {
		cfg.Reranking = operations.NewReranking(s.chat, s.defaults.RerankTopK)
	}
	if boolFlag(req.GenerateAnswer, false) {
		cfg.Completion = operations.NewCompletion(s.chat, 0)
	}

	return cfg, nil
}

// ExecuteSync runs a search inline and shapes the HTTP response. No
// request ID is assigned, so the pipeline emits no stream events.
func (s *SearchService) ExecuteSync(ctx context.Context, reqCtx *auth.RequestContext, collectionSlug string, req models.SearchRequest) (*models.SearchResponse, error) {
	col, err := s.getCollection(ctx, reqCtx, collectionSlug)
	if err != nil {
		return nil, err
	}

	cfg, err := s.BuildConfig(col, req)
	if err != nil {
		return nil, err
	}

	st, err := s.executor.Execute(ctx, cfg, s.db, reqCtx, "")
	if err != nil {
		return nil, err
	}

	return &models.SearchResponse{
		Results:    st.FinalResults,
		Completion: st.Completion,
		Execution:  st.Summary,
	}, nil
}

// EnqueueStreaming validates a search request and persists it as a pending
// row for the worker pool. The full request body is stored so the worker
// can rebuild the exact pipeline configuration.
func (s *SearchService) EnqueueStreaming(httpCtx context.Context, reqCtx *auth.RequestContext, collectionSlug string, req models.SearchRequest) (*ent.SearchRequest, error) {
	col, err := s.getCollection(httpCtx, reqCtx, collectionSlug)
	if err != nil {
		return nil, err
	}

	// Fail invalid requests at enqueue time, not in the worker.
	if _, err := s.BuildConfig(col, req); err != nil {
		return nil, err
	}

	configMap, err := requestToMap(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	// Use background context with timeout for critical write
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	builder := s.db.SearchRequest.Create().
		SetID(uuid.New().String()).
		SetCollectionID(col.ID).
		SetOrganizationID(reqCtx.Organization.ID).
		SetQuery(req.Query).
		SetConfig(configMap).
		SetStatus(searchrequest.StatusPending).
		SetCreatedAt(time.Now())
	if reqCtx.User != nil && reqCtx.User.ID != "" {
		builder.SetUserID(reqCtx.User.ID)
	}

	row, err := builder.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue search request: %w", err)
	}

	return row, nil
}

// ExecuteStreaming runs the pipeline for a claimed search request row,
// reconstructing the request context and configuration from what was
// persisted at enqueue time. Stream events carry the row's ID.
func (s *SearchService) ExecuteStreaming(ctx context.Context, row *ent.SearchRequest) (*search.State, error) {
	req, err := requestFromMap(row.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored search request: %w", err)
	}

	reqCtx, err := s.rebuildRequestContext(ctx, row)
	if err != nil {
		return nil, err
	}

	col, err := s.db.Collection.Get(ctx, row.CollectionID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	cfg, err := s.BuildConfig(col, req)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, cfg, s.db, reqCtx, row.ID)
}

// GetSearchRequest retrieves a search request by ID within the caller's
// organization
func (s *SearchService) GetSearchRequest(ctx context.Context, reqCtx *auth.RequestContext, requestID string) (*ent.SearchRequest, error) {
	row, err := s.db.SearchRequest.Query().
		Where(
			searchrequest.IDEQ(requestID),
			searchrequest.OrganizationIDEQ(reqCtx.Organization.ID),
		).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get search request: %w", err)
	}

	return row, nil
}

// ListSearchRequests lists the caller's search requests with filtering and
// pagination
func (s *SearchService) ListSearchRequests(ctx context.Context, reqCtx *auth.RequestContext, filters models.SearchRequestFilters) (*models.SearchRequestListResponse, error) {
	query := s.db.SearchRequest.Query().
		Where(searchrequest.OrganizationIDEQ(reqCtx.Organization.ID))

	if filters.Status != "" {
		status := searchrequest.Status(filters.Status)
		if err := searchrequest.StatusValidator(status); err != nil {
			return nil, NewValidationError("status", "unknown status")
		}
		query = query.Where(searchrequest.StatusEQ(status))
	}
	if filters.CollectionSlug != "" {
		col, err := s.getCollection(ctx, reqCtx, filters.CollectionSlug)
		if err != nil {
			return nil, err
		}
		query = query.Where(searchrequest.CollectionIDEQ(col.ID))
	}
	if filters.CreatedAfter != nil {
		query = query.Where(searchrequest.CreatedAtGTE(*filters.CreatedAfter))
	}

	totalCount, err := query.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count search requests: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20 // Default
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	requests, err := query.
		Limit(limit).
		Offset(offset).
		Order(ent.Desc(searchrequest.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list search requests: %w", err)
	}

	return &models.SearchRequestListResponse{
		Requests:   requests,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// CompleteRequest marks a search request completed
func (s *SearchService) CompleteRequest(ctx context.Context, requestID string) error {
	return s.finishRequest(requestID, searchrequest.StatusCompleted, "")
}

// FailRequest marks a search request failed with an error message
func (s *SearchService) FailRequest(ctx context.Context, requestID, errMsg string) error {
	return s.finishRequest(requestID, searchrequest.StatusFailed, errMsg)
}

// finishRequest writes a terminal status. Uses a background context with
// timeout: the worker's search context may already be cancelled.
func (s *SearchService) finishRequest(requestID string, status searchrequest.Status, errMsg string) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := s.db.SearchRequest.UpdateOneID(requestID).
		SetStatus(status).
		SetCompletedAt(time.Now())
	if errMsg != "" {
		update = update.SetErrorMessage(errMsg)
	}

	if err := update.Exec(writeCtx); err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update search request status: %w", err)
	}

	return nil
}

// PurgeOldRequests deletes finished search requests older than the retention period
func (s *SearchService) PurgeOldRequests(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention_days must be positive, got %d", retentionDays)
	}

	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	// Use background context with timeout
	deleteCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.db.SearchRequest.Delete().
		Where(
			searchrequest.StatusIn(searchrequest.StatusCompleted, searchrequest.StatusFailed),
			searchrequest.CompletedAtLT(cutoff),
		).
		Exec(deleteCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge search requests: %w", err)
	}

	return count, nil
}

// rebuildRequestContext reconstructs the identity a streaming request was
// enqueued with. A vanished user degrades to bare API-key attribution; a
// vanished organization fails the request.
func (s *SearchService) rebuildRequestContext(ctx context.Context, row *ent.SearchRequest) (*auth.RequestContext, error) {
	org, err := s.db.Organization.Get(ctx, row.OrganizationID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	var user *auth.User
	if row.UserID != nil && *row.UserID != "" {
		u, err := s.db.User.Get(ctx, *row.UserID)
		switch {
		case ent.IsNotFound(err):
			slog.Warn("Search request user no longer exists", "request_id", row.ID, "user_id", *row.UserID)
		case err != nil:
			return nil, fmt.Errorf("failed to load user: %w", err)
		default:
			user = &auth.User{ID: u.ID, Email: u.Email}
		}
	}

	logger := slog.Default().With(
		"request_id", row.ID,
		"organization_id", org.ID,
	)

	return &auth.RequestContext{
		RequestID:    row.ID,
		Method:       auth.MethodAPIKey,
		Organization: auth.Organization{ID: org.ID, Name: org.Name},
		User:         user,
		Logger:       logger,
	}, nil
}

// getCollection resolves a slug within the caller's organization.
func (s *SearchService) getCollection(ctx context.Context, reqCtx *auth.RequestContext, slug string) (*ent.Collection, error) {
	col, err := s.db.Collection.Query().
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

// boolFlag dereferences an optional request flag.
func boolFlag(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// parseFilter decodes a Qdrant filter from its JSON wire form.
func parseFilter(raw json.RawMessage) (*qdrantgo.Filter, error) {
	var filter qdrantgo.Filter
	if err := protojson.Unmarshal(raw, &filter); err != nil {
		return nil, fmt.Errorf("not a valid Qdrant filter: %w", err)
	}
	return &filter, nil
}

// requestToMap round-trips a search request into the JSON object stored on
// the queue row.
func requestToMap(req models.SearchRequest) (map[string]any, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// requestFromMap is the inverse of requestToMap.
func requestFromMap(m map[string]any) (models.SearchRequest, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return models.SearchRequest{}, err
	}
	var req models.SearchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.SearchRequest{}, err
	}
	return req, nil
}

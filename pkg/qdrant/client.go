// Package qdrant wraps the Qdrant gRPC client with the few operations the
// search pipeline and collection lifecycle need: collection management,
// dense similarity queries and health checks.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	qdrantgo "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

// Config holds Qdrant connection settings. Port is the gRPC port (6334 by
// default, not the REST 6333).
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// Client is a thin wrapper over the Qdrant gRPC client.
type Client struct {
	api    *qdrantgo.Client
	logger *slog.Logger
}

// NewClient connects to Qdrant. The underlying gRPC connection is lazy;
// failures surface on first use and on Health.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	api, err := qdrantgo.NewClient(&qdrantgo.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
		GrpcOptions: []grpc.DialOption{
			// Idle searches must not let load balancers silently drop the
			// connection; qdrant allows pings at this cadence.
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                30 * time.Second,
				Timeout:             10 * time.Second,
				PermitWithoutStream: true,
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	logger.Info("Qdrant client created", "host", cfg.Host, "port", cfg.Port, "tls", cfg.UseTLS)
	return &Client{api: api, logger: logger}, nil
}

// Close releases the gRPC connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// Health verifies the server responds.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// EnsureCollection creates the named collection with cosine distance if it
// does not exist yet. Idempotent.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	exists, err := c.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %q: %w", name, err)
	}
	if exists {
		return nil
	}

	err = c.api.CreateCollection(ctx, &qdrantgo.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrantgo.NewVectorsConfig(&qdrantgo.VectorParams{
			Size:     vectorSize,
			Distance: qdrantgo.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}

	c.logger.Info("Created Qdrant collection", "collection", name, "vector_size", vectorSize)
	return nil
}

// DeleteCollection removes the named collection. Deleting a missing
// collection is not an error.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.api.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}
	c.logger.Info("Deleted Qdrant collection", "collection", name)
	return nil
}

// QueryParams describes one dense similarity query.
type QueryParams struct {
	Collection     string
	Vector         []float32
	Limit          uint64
	Offset         uint64
	ScoreThreshold *float32
	Filter         *qdrantgo.Filter
}

// ScoredResult is one matched point with its payload decoded to plain Go
// values.
type ScoredResult struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// Searcher is the querying capability the search operators depend on.
// *Client implements it; tests substitute fakes.
type Searcher interface {
	Query(ctx context.Context, params QueryParams) ([]ScoredResult, error)
}

// Query runs a dense vector query and returns scored points ordered by
// descending similarity.
func (c *Client) Query(ctx context.Context, params QueryParams) ([]ScoredResult, error) {
	limit := params.Limit
	req := &qdrantgo.QueryPoints{
		CollectionName: params.Collection,
		Query:          qdrantgo.NewQueryDense(params.Vector),
		Limit:          &limit,
		Filter:         params.Filter,
		ScoreThreshold: params.ScoreThreshold,
		WithPayload:    qdrantgo.NewWithPayload(true),
	}
	if params.Offset > 0 {
		offset := params.Offset
		req.Offset = &offset
	}

	points, err := c.api.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant query on %q failed: %w", params.Collection, err)
	}

	results := make([]ScoredResult, 0, len(points))
	for _, p := range points {
		results = append(results, ScoredResult{
			ID:      pointIDString(p.GetId()),
			Score:   p.GetScore(),
			Payload: payloadToMap(p.GetPayload()),
		})
	}
	return results, nil
}

func pointIDString(id *qdrantgo.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// payloadToMap converts a Qdrant payload into plain Go values so callers
// never handle protobuf types.
func payloadToMap(payload map[string]*qdrantgo.Value) map[string]any {
	if len(payload) == 0 {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrantgo.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrantgo.Value_NullValue:
		return nil
	case *qdrantgo.Value_BoolValue:
		return kind.BoolValue
	case *qdrantgo.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrantgo.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrantgo.Value_StringValue:
		return kind.StringValue
	case *qdrantgo.Value_ListValue:
		values := kind.ListValue.GetValues()
		list := make([]any, 0, len(values))
		for _, item := range values {
			list = append(list, valueToAny(item))
		}
		return list
	case *qdrantgo.Value_StructValue:
		fields := kind.StructValue.GetFields()
		nested := make(map[string]any, len(fields))
		for k, item := range fields {
			nested[k] = valueToAny(item)
		}
		return nested
	default:
		return nil
	}
}

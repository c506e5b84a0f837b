package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/apikey"
	"github.com/Zeeeepa/airweave/pkg/auth"
)

// APIKeyService resolves raw API keys into the organization and user they
// belong to. Only the SHA-256 hash of a key is stored; the plaintext is
// returned once at creation time and never persisted.
type APIKeyService struct {
	client *ent.Client
}

// NewAPIKeyService creates an APIKeyService backed by the given ent client.
func NewAPIKeyService(client *ent.Client) *APIKeyService {
	return &APIKeyService{client: client}
}

// HashKey returns the hex-encoded SHA-256 digest used to store and look up
// API keys.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CreateAPIKey mints a key for the organization and stores its hash.
// createdBy may be empty for keys provisioned outside the API. The returned
// plaintext cannot be recovered afterwards.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, orgID, createdBy string, expiresAt *time.Time) (string, *ent.APIKey, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("failed to generate api key: %w", err)
	}
	plaintext := hex.EncodeToString(raw)

	create := s.client.APIKey.Create().
		SetID(uuid.New().String()).
		SetKeyHash(HashKey(plaintext)).
		SetOrganizationID(orgID)
	if createdBy != "" {
		create.SetCreatedBy(createdBy)
	}
	if expiresAt != nil {
		create.SetExpiresAt(*expiresAt)
	}

	key, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return "", nil, ErrAlreadyExists
		}
		return "", nil, fmt.Errorf("failed to create api key: %w", err)
	}

	return plaintext, key, nil
}

// Authenticate resolves a raw API key into the organization and optional
// user behind it. Unknown and expired keys both map to ErrInvalidAPIKey.
// A vanished creator degrades to bare API-key attribution.
func (s *APIKeyService) Authenticate(ctx context.Context, rawKey string) (*ent.Organization, *auth.User, error) {
	key, err := s.client.APIKey.Query().
		Where(apikey.KeyHashEQ(HashKey(rawKey))).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil, ErrInvalidAPIKey
		}
		return nil, nil, fmt.Errorf("failed to look up api key: %w", err)
	}

	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, nil, ErrInvalidAPIKey
	}

	org, err := s.client.Organization.Get(ctx, key.OrganizationID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil, ErrInvalidAPIKey
		}
		return nil, nil, fmt.Errorf("failed to load organization: %w", err)
	}

	var user *auth.User
	if key.CreatedBy != nil && *key.CreatedBy != "" {
		u, err := s.client.User.Get(ctx, *key.CreatedBy)
		switch {
		case ent.IsNotFound(err):
			slog.Warn("API key creator no longer exists", "api_key_id", key.ID, "user_id", *key.CreatedBy)
		case err != nil:
			return nil, nil, fmt.Errorf("failed to load user: %w", err)
		default:
			user = &auth.User{ID: u.ID, Email: u.Email}
		}
	}

	s.touchLastUsed(key.ID)

	return org, user, nil
}

// touchLastUsed records key usage in the background so authentication never
// blocks on the bookkeeping write.
func (s *APIKeyService) touchLastUsed(keyID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.client.APIKey.UpdateOneID(keyID).
			SetLastUsedAt(time.Now()).
			Exec(ctx)
		if err != nil {
			slog.Warn("Failed to update api key last_used_at", "api_key_id", keyID, "error", err)
		}
	}()
}

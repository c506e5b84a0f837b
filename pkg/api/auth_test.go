package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/services"
	testdb "github.com/Zeeeepa/airweave/test/database"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "bearer token",
			headers: map[string]string{"Authorization": "Bearer sk-abc123"},
			want:    "sk-abc123",
		},
		{
			name:    "x-api-key header",
			headers: map[string]string{"X-API-Key": "sk-xyz789"},
			want:    "sk-xyz789",
		},
		{
			name: "bearer wins over x-api-key",
			headers: map[string]string{
				"Authorization": "Bearer sk-bearer",
				"X-API-Key":     "sk-header",
			},
			want: "sk-bearer",
		},
		{
			name:    "non-bearer authorization falls through",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz", "X-API-Key": "sk-fallback"},
			want:    "sk-fallback",
		},
		{
			name:    "empty bearer falls through",
			headers: map[string]string{"Authorization": "Bearer "},
			want:    "",
		},
		{
			name:    "no headers",
			headers: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/collections", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, extractAPIKey(c))
		})
	}
}

// authProbe mounts the auth middleware in front of a handler that echoes
// the resolved identity.
func authProbe(s *Server) *gin.Engine {
	engine := gin.New()
	engine.GET("/probe", s.authMiddleware(), func(c *gin.Context) {
		rc := requestContext(c)
		if rc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no request context"})
			return
		}
		resp := gin.H{
			"request_id":      rc.RequestID,
			"organization_id": rc.Organization.ID,
		}
		if rc.User != nil {
			resp["user_id"] = rc.User.ID
		}
		c.JSON(http.StatusOK, resp)
	})
	return engine
}

func TestAuthMiddleware(t *testing.T) {
	client := testdb.NewTestClient(t)
	ctx := context.Background()

	org, err := client.Client.Organization.Create().
		SetID(uuid.New().String()).
		SetName("Auth Test Org").
		Save(ctx)
	require.NoError(t, err)

	apiKeySvc := services.NewAPIKeyService(client.Client)
	plaintext, _, err := apiKeySvc.CreateAPIKey(ctx, org.ID, "", nil)
	require.NoError(t, err)

	s := &Server{apiKeyService: apiKeySvc}
	engine := authProbe(s)

	t.Run("missing key returns 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-API-Key", "definitely-wrong")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid bearer key resolves organization", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+plaintext)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), org.ID)
	})

	t.Run("valid x-api-key resolves organization", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-API-Key", plaintext)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), org.ID)
	})

	t.Run("key with creator carries user identity", func(t *testing.T) {
		user, err := client.Client.User.Create().
			SetID(uuid.New().String()).
			SetEmail("creator@example.com").
			SetOrganizationID(org.ID).
			Save(ctx)
		require.NoError(t, err)

		userKey, _, err := apiKeySvc.CreateAPIKey(ctx, org.ID, user.ID, nil)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-API-Key", userKey)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), user.ID)
	})
}

func TestRequestContextHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	assert.Nil(t, requestContext(c), "unset context yields nil")

	rc := &auth.RequestContext{
		RequestID:    uuid.New().String(),
		Method:       auth.MethodAPIKey,
		Organization: auth.Organization{ID: "org-1", Name: "Org"},
	}
	c.Set(contextKeyRequestContext, rc)
	assert.Same(t, rc, requestContext(c))
}

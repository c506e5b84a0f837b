package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/services"
)

// seedTenant creates the organization, user, API key, and collection that
// the tests authenticate and search against.
func seedTenant(t *testing.T, app *TestApp, apiKeys *services.APIKeyService) {
	t.Helper()
	ctx := context.Background()

	org, err := app.EntClient.Organization.Create().
		SetID(uuid.New().String()).
		SetName("Acme Corp").
		Save(ctx)
	require.NoError(t, err)

	user, err := app.EntClient.User.Create().
		SetID(uuid.New().String()).
		SetEmail("dev@acme.test").
		SetFullName("Dev User").
		SetOrganizationID(org.ID).
		Save(ctx)
	require.NoError(t, err)

	plaintext, _, err := apiKeys.CreateAPIKey(ctx, org.ID, user.ID, nil)
	require.NoError(t, err)

	col, err := app.EntClient.Collection.Create().
		SetID(uuid.New().String()).
		SetSlug("docs").
		SetName("Documentation").
		SetOrganizationID(org.ID).
		Save(ctx)
	require.NoError(t, err)

	app.Org = org
	app.User = user
	app.APIKey = plaintext
	app.Collection = col
}

// doJSON sends an authenticated JSON request and decodes the response body
// into out (skipped when out is nil). Returns the HTTP status code.
func (app *TestApp) doJSON(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, app.BaseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+app.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil && len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, out),
			"response body: %s", string(data))
	}
	return resp.StatusCode
}

// awaitCondition polls until cond returns true or the timeout elapses.
func awaitCondition(t *testing.T, timeout time.Duration, cond func() bool, msgAndArgs ...any) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	require.Fail(t, fmt.Sprintf("condition not met within %s", timeout), msgAndArgs...)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testdb "github.com/Zeeeepa/airweave/test/database"
)

func TestAPIKeyService_CreateAndAuthenticate(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	svc := NewAPIKeyService(client.Client)
	ctx := context.Background()

	t.Run("round trip without user", func(t *testing.T) {
		plaintext, key, err := svc.CreateAPIKey(ctx, org.ID, "", nil)
		require.NoError(t, err)
		require.NotEmpty(t, plaintext)
		assert.Equal(t, HashKey(plaintext), key.KeyHash, "only the hash is stored")
		assert.NotContains(t, key.KeyHash, plaintext)

		gotOrg, gotUser, err := svc.Authenticate(ctx, plaintext)
		require.NoError(t, err)
		assert.Equal(t, org.ID, gotOrg.ID)
		assert.Nil(t, gotUser, "key without creator has no user identity")
	})

	t.Run("round trip with creating user", func(t *testing.T) {
		user := seedTestUser(t, client.Client, org)
		plaintext, _, err := svc.CreateAPIKey(ctx, org.ID, user.ID, nil)
		require.NoError(t, err)

		gotOrg, gotUser, err := svc.Authenticate(ctx, plaintext)
		require.NoError(t, err)
		assert.Equal(t, org.ID, gotOrg.ID)
		require.NotNil(t, gotUser)
		assert.Equal(t, user.ID, gotUser.ID)
		assert.Equal(t, user.Email, gotUser.Email)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "not-a-real-key")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("expired key", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		plaintext, _, err := svc.CreateAPIKey(ctx, org.ID, "", &expired)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, plaintext)
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("future expiry still valid", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		plaintext, _, err := svc.CreateAPIKey(ctx, org.ID, "", &future)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, plaintext)
		assert.NoError(t, err)
	})
}

func TestAPIKeyService_TouchesLastUsed(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	svc := NewAPIKeyService(client.Client)
	ctx := context.Background()

	plaintext, key, err := svc.CreateAPIKey(ctx, org.ID, "", nil)
	require.NoError(t, err)
	assert.Nil(t, key.LastUsedAt)

	_, _, err = svc.Authenticate(ctx, plaintext)
	require.NoError(t, err)

	// The last_used_at write happens off the request path.
	require.Eventually(t, func() bool {
		row, err := client.Client.APIKey.Get(ctx, key.ID)
		return err == nil && row.LastUsedAt != nil
	}, 5*time.Second, 50*time.Millisecond, "last_used_at should be recorded")
}

func TestAPIKeyService_VanishedCreatorDegrades(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	svc := NewAPIKeyService(client.Client)
	ctx := context.Background()

	user := seedTestUser(t, client.Client, org)
	plaintext, _, err := svc.CreateAPIKey(ctx, org.ID, user.ID, nil)
	require.NoError(t, err)

	require.NoError(t, client.Client.User.DeleteOneID(user.ID).Exec(ctx))

	gotOrg, gotUser, err := svc.Authenticate(ctx, plaintext)
	require.NoError(t, err)
	assert.Equal(t, org.ID, gotOrg.ID)
	assert.Nil(t, gotUser, "deleted creator falls back to org-only attribution")
}

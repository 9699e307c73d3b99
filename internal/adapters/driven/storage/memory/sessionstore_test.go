package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forlark/larkfetch/internal/core/domain"
)

// TestSessionStore_Roundtrip tests save and load with copy semantics
func TestSessionStore_Roundtrip(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := &domain.UserSession{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
		Region:      domain.RegionFeishu,
		Kind:        domain.TokenKindUser,
	}
	require.NoError(t, store.SaveSession(ctx, session))

	// Mutating the original must not affect the stored copy.
	session.AccessToken = "mutated"

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.AccessToken)
}

// TestSessionStore_Empty tests the not-found errors
func TestSessionStore_Empty(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetPending(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestSessionStore_SingleSlot tests last-writer-wins replacement
func TestSessionStore_SingleSlot(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &domain.UserSession{AccessToken: "a"}))
	require.NoError(t, store.SaveSession(ctx, &domain.UserSession{AccessToken: "b"}))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got.AccessToken)
}

// TestSessionStore_PendingLifecycle tests the pending attempt slot
func TestSessionStore_PendingLifecycle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SavePending(ctx, &domain.PendingAuthorization{
		State: "nonce", Region: domain.RegionLarkSuite, CreatedAt: time.Now(),
	}))

	got, err := store.GetPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nonce", got.State)

	require.NoError(t, store.DeletePending(ctx))
	_, err = store.GetPending(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestSessionStore_Invalid tests rejection of unusable records
func TestSessionStore_Invalid(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveSession(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SavePending(ctx, &domain.PendingAuthorization{}), domain.ErrInvalidInput)
}

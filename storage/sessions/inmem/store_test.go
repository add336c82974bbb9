package inmemstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
	"github.com/hometuition/portal/core/user"
	inmemstore "github.com/hometuition/portal/storage/sessions/inmem"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.NewStore()
	now := core.Now()

	live := session.Session{ID: "live", UserID: 1, Role: user.RoleAdmin, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := session.Session{ID: "dead", UserID: 2, Role: user.RoleParent, CreatedAt: now, ExpiresAt: now.Add(-time.Second)}
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, dead))

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, live, got)

	_, err = store.Get(ctx, "dead")
	assert.Equal(t, session.ErrNotFound, err)
	// expired sessions are purged on read
	assert.Equal(t, session.ErrNotFound, store.Delete(ctx, "dead"))

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Get(ctx, "live")
	assert.Equal(t, session.ErrNotFound, err)

	assert.NoError(t, store.Ping(ctx))
}

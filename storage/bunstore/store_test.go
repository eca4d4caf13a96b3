package bunstore

import (
	"context"
	"testing"

	vend "github.com/goliatone/go-vend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := New(db)
	require.NoError(t, store.CreateTable(context.Background()))
	return store
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	err = store.Save(ctx, map[string]string{
		vend.TokenKey: "tok-1",
		vend.UserKey:  `{"id":"u1","email":"ada@example.com"}`,
	})
	require.NoError(t, err)

	values, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", values[vend.TokenKey])
	assert.Contains(t, values[vend.UserKey], "ada@example.com")
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]string{vend.TokenKey: "A"}))
	require.NoError(t, store.Save(ctx, map[string]string{vend.TokenKey: "B"}))

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{vend.TokenKey: "B"}, values)
}

func TestStoreDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]string{
		vend.TokenKey: "tok",
		vend.UserKey:  "{}",
		"other":       "keep",
	}))

	require.NoError(t, store.Delete(ctx, vend.SessionKeys()...))

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"other": "keep"}, values)

	assert.NoError(t, store.Delete(ctx))
	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestStoreBacksSessionStore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	session := vend.NewSessionStore(ctx, store, vend.WithSessionLogger(vend.NopLogger()))
	session.SetSession("tok-1", &vend.User{ID: "u1", Email: "ada@example.com", Role: vend.RoleAgent})

	reloaded := vend.NewSessionStore(ctx, store, vend.WithSessionLogger(vend.NopLogger()))
	token, ok := reloaded.GetToken()
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	require.NotNil(t, reloaded.GetUser())
	assert.Equal(t, vend.RoleAgent, reloaded.GetUser().Role)

	reloaded.Clear()

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
}

package memory

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Storage = (*Store)(nil)

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "wishlist", "[]"))
	v, ok, err := s.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.Equal(t, 1, s.Writes())

	require.NoError(t, s.Delete(ctx, "wishlist"))
	_, ok, err = s.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreWithData(t *testing.T) {
	s := New(WithData(map[string]string{"wishlist": `[{"id":"a"}]`}))
	assert.Equal(t, map[string]string{"wishlist": `[{"id":"a"}]`}, s.Snapshot())
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	quota := errors.New("quota exceeded")
	s := New(WithFailingWrites(quota), WithFailingReads(quota))

	err := s.Set(ctx, "wishlist", "[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, quota)
	assert.True(t, pkgerrors.IsStorageUnavailable(err))

	_, _, err = s.Get(ctx, "wishlist")
	assert.ErrorIs(t, err, quota)

	s.SetFailures(nil, nil)
	require.NoError(t, s.Set(ctx, "wishlist", "[]"))
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Close())

	err := s.Set(ctx, "k", "v")
	assert.True(t, pkgerrors.IsClosed(err))
	_, _, err = s.Get(ctx, "k")
	assert.True(t, pkgerrors.IsClosed(err))
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New().Set(ctx, "k", "v"), context.Canceled)
}

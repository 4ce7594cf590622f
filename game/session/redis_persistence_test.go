package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/slidingpuzzle/game/codec"
	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
	"github.com/wricardo/slidingpuzzle/game/session"
	"github.com/wricardo/slidingpuzzle/testing/suite"
)

func TestRedisPersistence(t *testing.T) {
	ctx, st := suite.New(t)
	store := session.NewRedisPersistenceWithClient(st.Redis, "test:save:", codec.DefaultOptions())

	board, err := engine.FromCells(3, []int{4, 1, 3, 0, 2, 6, 7, 5, 8}, true)
	require.NoError(t, err)

	t.Run("save and load", func(t *testing.T) {
		// Given a saved board
		require.NoError(t, store.Save(ctx, "game1", board))

		// When it is loaded back
		loaded, err := store.Load(ctx, "game1")

		// Then it matches
		require.NoError(t, err)
		assert.True(t, loaded.Equal(board))
		assert.True(t, store.Exists(ctx, "game1"))

		raw, err := st.Redis.Get(ctx, "test:save:game1").Result()
		require.NoError(t, err)
		assert.Equal(t, "3\n4\n1\n3\n0\n2\n6\n7\n5\n8\n", raw)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "game2", board))

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"game1", "game2"}, names)
	})

	t.Run("missing save", func(t *testing.T) {
		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, service.ErrSaveNotFound)
		assert.False(t, store.Exists(ctx, "nope"))
	})

	t.Run("corrupt value", func(t *testing.T) {
		require.NoError(t, st.Redis.Set(ctx, "test:save:bad", "2\n1\n1\n2\n0\n", 0).Err())

		_, err := store.Load(ctx, "bad")
		assert.ErrorIs(t, err, engine.ErrNotPermutation)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "game2"))
		assert.False(t, store.Exists(ctx, "game2"))
		assert.ErrorIs(t, store.Delete(ctx, "game2"), service.ErrSaveNotFound)
	})

	t.Run("invalid name", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, "../up", board), service.ErrInvalidName)
	})
}

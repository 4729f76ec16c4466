package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBlobStoreContract checks the behaviour every backend shares.
func runBlobStoreContract(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key loads nil", func(t *testing.T) {
		data, err := store.Load(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "movies", []byte(`[{"id":"1"}]`)))

		data, err := store.Load(ctx, "movies")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, string(data))
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "movies", []byte(`[{"id":"1"},{"id":"2"}]`)))
		require.NoError(t, store.Save(ctx, "movies", []byte(`[]`)))

		data, err := store.Load(ctx, "movies")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "a", []byte(`"a"`)))
		require.NoError(t, store.Save(ctx, "b", []byte(`"b"`)))

		data, err := store.Load(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, `"a"`, string(data))
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "..", "nested/key"} {
			_, err := store.Load(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey, key)
			assert.ErrorIs(t, store.Save(ctx, key, []byte(`[]`)), ErrInvalidKey, key)
		}
	})
}

package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	reg := New()

	a := reg.Register()
	b := reg.Register()
	c := reg.Register()

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, int64(3), c.ID)
	assert.Equal(t, "user-1", a.Name)
	assert.Equal(t, 3, reg.Count())
}

func TestIdentitiesNotReusedAfterUnregister(t *testing.T) {
	reg := New()

	a := reg.Register()
	reg.Unregister(a.ID)
	b := reg.Register()

	assert.Greater(t, b.ID, a.ID)
}

func TestRename(t *testing.T) {
	reg := New()
	a := reg.Register()

	t.Run("valid name", func(t *testing.T) {
		c, err := reg.Rename(a.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", c.Name)

		got, ok := reg.Get(a.ID)
		require.True(t, ok)
		assert.Equal(t, "alice", got.Name)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := reg.Rename(a.ID, "")
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("over 20 characters rejected", func(t *testing.T) {
		_, err := reg.Rename(a.ID, strings.Repeat("x", 21))
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("exactly 20 characters accepted", func(t *testing.T) {
		_, err := reg.Rename(a.ID, strings.Repeat("x", 20))
		assert.NoError(t, err)
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		_, err := reg.Rename(a.ID, strings.Repeat("ñ", 20))
		assert.NoError(t, err)
	})

	t.Run("unknown identity", func(t *testing.T) {
		_, err := reg.Rename(999, "bob")
		assert.Error(t, err)
	})
}

func TestUnregisterIdempotent(t *testing.T) {
	reg := New()
	a := reg.Register()

	reg.Unregister(a.ID)
	reg.Unregister(a.ID)

	_, ok := reg.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Count())
}

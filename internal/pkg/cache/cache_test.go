package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "employee_list:1:/api/v1/employees", []byte(`{"a":1}`), time.Minute))
	got, ok, err := c.Get(ctx, "employee_list:1:/api/v1/employees")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, c.Clear(ctx))
	_, ok, err = c.Get(ctx, "employee_list:1:/api/v1/employees")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache(time.Minute))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), mr.Addr(), "", 0, "hr")
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}

func TestRedisCache_ClearKeepsForeignKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("other:key", "v"))

	c, err := NewRedisCache(context.Background(), mr.Addr(), "", 0, "hr")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	require.NoError(t, c.Clear(context.Background()))

	assert.True(t, mr.Exists("other:key"))
	assert.False(t, mr.Exists("hr:k"))
}

func TestRedisCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), mr.Addr(), "", 0, "hr")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingCache struct {
	MemoryCache
	cleared int
}

func (f *failingCache) Clear(context.Context) error {
	f.cleared++
	return errors.New("boom")
}

func TestInvalidator(t *testing.T) {
	mem := NewMemoryCache(time.Minute)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "k", []byte("v"), time.Minute))

	NewInvalidator(mem).Invalidate(ctx, ModelEmployee)

	_, ok, _ := mem.Get(ctx, "k")
	assert.False(t, ok)

	// errors are swallowed
	f := &failingCache{}
	NewInvalidator(f).Invalidate(ctx, ModelTask)
	assert.Equal(t, 1, f.cleared)
}

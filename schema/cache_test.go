package schema_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/parsekit/schema"
)

func TestCache_CompileOncePerSchema(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := schema.NewCacheMetrics(reg)
	cache := schema.NewCache(schema.WithMetrics(metrics))

	s := schema.New().
		Field("a", schema.Int()).
		MustBuild()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := schema.ParseOn(ctx, cache, s, "1")
		require.NoError(t, err)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Builds))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Misses))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.Hits))
	assert.Equal(t, 1, cache.Len())
}

func TestCache_SchemaIdentityNotStructure(t *testing.T) {
	cache := schema.NewCache()

	build := func() *schema.Schema {
		return schema.New().Field("a", schema.Int()).MustBuild()
	}
	s1, s2 := build(), build()

	ctx := context.Background()
	_, err := schema.ParseOn(ctx, cache, s1, "1")
	require.NoError(t, err)
	_, err = schema.ParseOn(ctx, cache, s2, "1")
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len(), "structurally equal schemas are distinct cache keys")
}

func TestCache_ClearForcesRebuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := schema.NewCacheMetrics(reg)
	cache := schema.NewCache(schema.WithMetrics(metrics))

	s := schema.New().Field("a", schema.Int()).MustBuild()
	ctx := context.Background()

	_, err := schema.ParseOn(ctx, cache, s, "1")
	require.NoError(t, err)
	cache.Clear(s)
	assert.Equal(t, 0, cache.Len())

	_, err = schema.ParseOn(ctx, cache, s, "1")
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Builds))
}

func TestCache_NestedSchemasAreCachedToo(t *testing.T) {
	cache := schema.NewCache()

	inner := schema.New().Field("x", schema.Int()).Separator(":").MustBuild()
	outer := schema.New().Field("p", schema.Nested(inner)).MustBuild()

	_, err := schema.ParseOn(context.Background(), cache, outer, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_ConcurrentFirstUse(t *testing.T) {
	cache := schema.NewCache()
	s := schema.New().
		Field("a", schema.Int()).
		Field("b", schema.Int()).
		MustBuild()

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = schema.ParseOn(context.Background(), cache, s, "1 2")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cache.Len())
}

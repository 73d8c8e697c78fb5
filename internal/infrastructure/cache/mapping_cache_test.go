package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/cache"
	"github.com/akashkatakam/vehicle-tracking-system/internal/testutil/memstore"
)

// unreachable points at a port nothing listens on.
func unreachable(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMappingCache_ReportsBackendErrors(t *testing.T) {
	c := cache.NewMappingCache(unreachable(t))

	_, ok, err := c.GetMappings(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.SetColors(context.Background(), []mapping.ColorCode{{Code: "NH1", Name: "BLACK"}}))
	assert.Error(t, c.Invalidate(context.Background()))
}

func TestMappingService_FallsBackWhenCacheIsDown(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	svc := mapping.NewService(s.Mappings(), cache.NewMappingCache(unreachable(t)))

	require.NoError(t, svc.AddMapping(ctx, &mapping.ProductMapping{
		ModelCode: "JF50A", VariantCode: "STD", RealModel: "ACTIVA 6G", RealVariant: "STANDARD",
	}))

	ms, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "ACTIVA 6G", ms[0].RealModel)
}

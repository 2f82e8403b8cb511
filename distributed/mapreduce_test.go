package distributed_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/distributed"
)

func TestMap_OrderedResults(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}

	results, err := distributed.Map(context.Background(), items, distributed.Config{Workers: 4},
		func(_ context.Context, n int) (int, error) {
			return n * n, nil
		})
	require.NoError(t, err)

	want := []int{0, 1, 4, 9, 16, 25, 36, 49}
	assert.Equal(t, want, results)
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var inFlight, maxInFlight int32
	items := make([]int, 20)

	_, err := distributed.Map(context.Background(), items, distributed.Config{Workers: 3},
		func(_ context.Context, _ int) (struct{}, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&maxInFlight)
				if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
					break
				}
			}
			atomic.AddInt32(&inFlight, -1)

			return struct{}{}, nil
		})
	require.NoError(t, err)
	assert.LessOrEqual(t, maxInFlight, int32(3))
}

func TestMap_PropagatesError(t *testing.T) {
	errBoom := errors.New("boom")
	items := []int{1, 2, 3}

	_, err := distributed.Map(context.Background(), items, distributed.Config{Workers: 2},
		func(_ context.Context, n int) (int, error) {
			if n == 2 {
				return 0, errBoom
			}

			return n, nil
		})
	assert.ErrorIs(t, err, errBoom)
}

func TestMap_Empty(t *testing.T) {
	results, err := distributed.Map[int, int](context.Background(), nil, distributed.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestShards_RoundRobin(t *testing.T) {
	shards := distributed.Shards([]int{0, 1, 2, 3, 4}, 2)
	require.Len(t, shards, 2)
	assert.Equal(t, []int{0, 2, 4}, shards[0].Segments)
	assert.Equal(t, []int{1, 3}, shards[1].Segments)
}

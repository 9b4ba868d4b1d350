package jobstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client)
}

func TestRedisStore_PutGet(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleJob("j1")))

	job, err := s.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", job.ID)
	assert.Equal(t, model.JobStatusProcessing, job.Status)
	assert.Equal(t, []string{"email", "instagram"}, job.Input.Channels)
}

func TestRedisStore_GetNotFound(t *testing.T) {
	s := newTestRedisStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Update(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, sampleJob("j1")))

	status := model.JobStatusCompleted
	p := 100
	result := &model.JobResult{PredictedPerformance: []string{"email: good engagement expected (0.80)"}}
	require.NoError(t, s.Update(ctx, "j1", Update{Status: &status, Progress: &p, Result: result}))

	job, err := s.Get(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, job.Terminal())
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.Result)
	assert.Len(t, job.Result.PredictedPerformance, 1)
}

func TestRedisStore_UpdateNotFound(t *testing.T) {
	s := newTestRedisStore(t)
	p := 10
	err := s.Update(context.Background(), "missing", Update{Progress: &p})
	assert.ErrorIs(t, err, ErrNotFound)
}

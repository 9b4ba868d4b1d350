package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

const (
	keyPrefix         = "job:"
	connectionTimeout = 2 * time.Second
)

// RedisStore Redis 任务存储，按 job:<id> 存放 JSON 快照。
// 用于替换内存后端时不触碰流水线逻辑。
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore 创建 Redis 任务存储并验证连通性
func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient 使用既有客户端创建，便于测试注入
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job failed: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+job.ID, data, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job failed: %w", err)
	}
	return &job, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, upd Update) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	applyUpdate(job, upd)
	return s.Put(ctx, job)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

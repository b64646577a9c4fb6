package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const pendingQueueRedisKey = "xsweep_pending_posts"

// RedisQueue keeps the pending queue in a redis list, for hosts that already
// run redis and want the state off the local filesystem.
type RedisQueue struct {
	redisClient *redis.Client
}

func NewRedisQueue(options *redis.Options) *RedisQueue {
	return &RedisQueue{
		redisClient: redis.NewClient(options),
	}
}

func (q *RedisQueue) Load(ctx context.Context) ([]string, error) {
	return q.redisClient.LRange(ctx, pendingQueueRedisKey, 0, -1).Result()
}

func (q *RedisQueue) Save(ctx context.Context, ids []string) error {
	pipe := q.redisClient.TxPipeline()
	pipe.Del(ctx, pendingQueueRedisKey)
	if len(ids) > 0 {
		values := make([]interface{}, len(ids))
		for i, id := range ids {
			values[i] = id
		}
		pipe.RPush(ctx, pendingQueueRedisKey, values...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (q *RedisQueue) Close() error {
	return q.redisClient.Close()
}

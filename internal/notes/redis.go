package notes

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"coldsign-core/internal/model"
)

const keyPrefix = "tx_notes:"

// RedisStore 把批次元数据以 JSON 存入 Redis, 无过期
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveNotes(ctx context.Context, txID string, payments []model.PaymentItem) error {
	val, err := json.Marshal(payments)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+txID, val, 0).Err()
}

func (s *RedisStore) Notes(ctx context.Context, txID string) ([]model.PaymentItem, error) {
	val, err := s.client.Get(ctx, keyPrefix+txID).Result()
	if err != nil {
		return nil, err
	}

	var payments []model.PaymentItem
	if err := json.Unmarshal([]byte(val), &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"inventory-gateway-backend/api"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const orderViewTTL = 30 * time.Second

// OrderViewService serves channel-filtered order views, caching backend
// responses in Redis for a short window so dashboard polling does not hammer
// the upstream API.
type OrderViewService struct {
	client *api.Client
	redis  *redis.Client
	logger *zap.Logger
}

func NewOrderViewService(client *api.Client, redisClient *redis.Client, logger *zap.Logger) *OrderViewService {
	return &OrderViewService{client: client, redis: redisClient, logger: logger}
}

func cacheKey(query api.OrderQuery) string {
	raw := fmt.Sprintf("%s|%s|%s", query.Channel, query.Status, query.Supermarket)
	sum := sha256.Sum256([]byte(raw))
	return "orders:" + hex.EncodeToString(sum[:8])
}

// ListOrders returns orders for the query, served from cache when fresh.
func (s *OrderViewService) ListOrders(ctx context.Context, query api.OrderQuery) ([]api.Order, bool, error) {
	key := cacheKey(query)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var orders []api.Order
			if unmarshalErr := json.Unmarshal([]byte(cached), &orders); unmarshalErr == nil {
				return orders, true, nil
			}
			// Poisoned entry, drop it and fall through to the backend.
			s.redis.Del(ctx, key)
		} else if err != redis.Nil {
			s.logger.Warn("Redis lookup failed for order view", zap.String("key", key), zap.Error(err))
		}
	}

	orders, err := s.client.ListOrders(ctx, query)
	if err != nil {
		return nil, false, err
	}

	if s.redis != nil {
		if data, marshalErr := json.Marshal(orders); marshalErr == nil {
			if setErr := s.redis.Set(ctx, key, data, orderViewTTL).Err(); setErr != nil {
				s.logger.Warn("Failed to cache order view", zap.String("key", key), zap.Error(setErr))
			}
		}
	}

	return orders, false, nil
}

// GetOrder fetches a single order straight from the backend. Detail views
// are not cached because they back edit screens.
func (s *OrderViewService) GetOrder(ctx context.Context, id string) (*api.Order, error) {
	return s.client.GetOrder(ctx, id)
}

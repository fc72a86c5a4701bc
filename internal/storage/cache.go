package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"guardaazul/backend/internal/models"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func statusKey(id uint) string {
	return fmt.Sprintf("denuncia:status:%d", id)
}

// GetCachedStatus returns the cached status payload, or nil on a miss.
// Without Redis every lookup is a miss.
func (s *Service) GetCachedStatus(id uint) ([]byte, error) {
	if s.Redis == nil {
		return nil, nil
	}

	payload, err := s.Redis.Get(s.Ctx, statusKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Service) CacheStatus(id uint, payload []byte, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Set(s.Ctx, statusKey(id), payload, ttl).Err()
}

func (s *Service) invalidateStatus(id uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(s.Ctx, statusKey(id)).Err(); err != nil {
		log.Printf("WARNING: Failed to invalidate cached status of complaint %d: %v", id, err)
	}
}

// PublishVerdict announces a finished validation on VerdictChannel.
func (s *Service) PublishVerdict(event models.VerdictEvent) error {
	if s.Redis == nil {
		return nil
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.Redis.Publish(s.Ctx, VerdictChannel, string(msgBytes)).Err()
}

// SubscribeToVerdicts opens a subscription on VerdictChannel.
func (s *Service) SubscribeToVerdicts() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, VerdictChannel)
}

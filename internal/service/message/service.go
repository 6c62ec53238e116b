package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/message/mock.go -package=mocks

type messageRepository interface {
	GetStatusByID(ctx context.Context, id uuid.UUID) (string, error)
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Service answers message status queries, caching answers in Redis so the
// read path stays off the primary under operator polling.
type Service struct {
	repo  messageRepository
	cache cache
}

func NewService(repo messageRepository, cache cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetStatusByID returns the delivery status of a message, cache first.
func (s *Service) GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error) {
	key := "message:status:" + id.String()

	status, err := s.cache.GetWithRetry(ctx, strategy, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get message status from cache")
	}

	if errors.Is(err, redis.Nil) || status == "" {
		status, err = s.repo.GetStatusByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("get message status: %w", err)
		}

		if err := s.cache.SetWithRetry(ctx, strategy, key, status); err != nil {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache message status")
		}
	}

	return status, nil
}

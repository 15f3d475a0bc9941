package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/quiz-service/internal/domain"
	"github.com/spec-kit/quiz-service/internal/events"
	"github.com/spec-kit/quiz-service/internal/repository"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
	streamMaxLen         = 10000
)

// StreamAdder is the go-redis surface used to append to a stream.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// ActivityService records user actions to Postgres and a Redis stream.
// Either sink may be nil.
type ActivityService struct {
	repo   repository.ActivityRepository
	stream StreamAdder
	key    string
	logger *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(repo repository.ActivityRepository, stream StreamAdder, streamKey string, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, stream: stream, key: streamKey, logger: logger}
}

// RegisterHandlers subscribes to every event.
func (s *ActivityService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.AllEvents, s.handleEvent)
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("activity",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("user_id", event.UserID))
	return s.Record(ctx, event)
}

// Record writes event to every configured sink. The first sink error is
// returned after all sinks were attempted.
func (s *ActivityService) Record(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}

	var firstErr error
	if s.repo != nil {
		err := s.repo.Create(ctx, &domain.Activity{
			ID:        event.ID,
			UserID:    event.UserID,
			Type:      event.Type,
			Payload:   payload,
			CreatedAt: event.Timestamp,
		})
		if err != nil {
			firstErr = fmt.Errorf("persist activity: %w", err)
		}
	}

	if s.stream != nil {
		err := s.stream.XAdd(ctx, &redis.XAddArgs{
			Stream: s.key,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"id":         event.ID,
				"user_id":    event.UserID,
				"event_type": string(event.Type),
				"payload":    string(payload),
				"timestamp":  event.Timestamp.UnixMilli(),
			},
		}).Err()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("publish activity: %w", err)
		}
	}
	return firstErr
}

// Recent lists the latest activities of userID, newest first.
func (s *ActivityService) Recent(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}
	if s.repo == nil {
		return []domain.Activity{}, nil
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

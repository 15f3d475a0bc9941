package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/quiz-service/internal/domain"
)

// Event represents a user action emitted by services.
type Event struct {
	ID        string              `json:"id"`
	Type      domain.ActivityType `json:"type"`
	UserID    string              `json:"user_id"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   interface{}         `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType domain.ActivityType, userID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// LoginPayload payload.
type LoginPayload struct {
	Username string `json:"username"`
}

// QuestionGeneratedPayload payload.
type QuestionGeneratedPayload struct {
	Theme    string `json:"theme"`
	Question string `json:"question"`
}

// QuestionBatchGeneratedPayload payload.
type QuestionBatchGeneratedPayload struct {
	Theme    string `json:"theme"`
	Quantity int    `json:"quantity"`
}

// ResponseAnalyzedPayload payload.
type ResponseAnalyzedPayload struct {
	Question string `json:"question"`
	Score    string `json:"score"`
}

package domain

import (
	"encoding/json"
	"time"
)

// ActivityType enumerates recorded user actions.
type ActivityType string

const (
	ActivityLoginSucceeded         ActivityType = "login_succeeded"
	ActivityLoginFailed            ActivityType = "login_failed"
	ActivityQuestionGenerated      ActivityType = "question_generated"
	ActivityQuestionBatchGenerated ActivityType = "questions_batch_generated"
	ActivityResponseAnalyzed       ActivityType = "response_analyzed"
)

// Activity is one row of the audit trail.
type Activity struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      ActivityType    `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

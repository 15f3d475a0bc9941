package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/quiz-service/internal/domain"
)

// DBTX is implemented by *pgxpool.Pool and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ActivityRepository defines persistence access for the activity log.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
}

type activityRepository struct {
	db DBTX
}

// NewActivityRepository returns a Postgres-backed implementation.
func NewActivityRepository(db DBTX) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO activity_log (id, user_id, event_type, payload, created_at)
        VALUES ($1, $2, $3, $4, $5)`

	payload := string(activity.Payload)
	if payload == "" {
		payload = "{}"
	}
	_, err := r.db.Exec(ctx, query,
		activity.ID,
		activity.UserID,
		string(activity.Type),
		payload,
		activity.CreatedAt,
	)
	return err
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	const query = `
        SELECT id::text, user_id, event_type, payload::text, created_at
        FROM activity_log
        WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0, limit)
	for rows.Next() {
		var (
			a         domain.Activity
			eventType string
			payload   string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &eventType, &payload, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.ActivityType(eventType)
		a.Payload = json.RawMessage(payload)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/google/uuid"
)

type activitySink struct {
	db *database.DB
}

func NewActivitySink(db *database.DB) activity.Sink {
	return &activitySink{db: db}
}

// Insert implements activity.Sink.
func (s *activitySink) Insert(ctx context.Context, event activity.Event) error {
	q := GetQuerier(ctx, s.db)

	detail := []byte("{}")
	if event.Detail != nil {
		encoded, err := json.Marshal(event.Detail)
		if err != nil {
			return fmt.Errorf("failed to encode activity detail: %w", err)
		}
		detail = encoded
	}

	_, err := q.Exec(ctx, `
		INSERT INTO activity_events (
			id, kind, employee_id, actor_id, work_date, detail, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.NewString(),
		event.Kind,
		nullableString(event.EmployeeID),
		nullableString(event.ActorID),
		nullableString(event.Date),
		detail,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity event: %w", err)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

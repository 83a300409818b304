package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taskhive/taskhive/internal/sqlc"
)

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

func pgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func fromPgTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func fromRow(row sqlc.Task) Task {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return Task{
		ID:            fromPgUUID(row.ID),
		UserID:        fromPgUUID(row.UserID),
		Title:         row.Title,
		Description:   row.Description,
		Completed:     row.Completed,
		CompletedAt:   fromPgTimestamptz(row.CompletedAt),
		OrderPosition: int(row.OrderPosition),
		DueDate:       fromPgTimestamptz(row.DueDate),
		Priority:      Priority(row.Priority),
		Tags:          tags,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

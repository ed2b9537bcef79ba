package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
)

type transitionRow struct {
	ID        uuid.UUID `db:"id"`
	Subject   string    `db:"subject"`
	SubjectID int64     `db:"subject_id"`
	From      string    `db:"from_status"`
	To        string    `db:"to_status"`
	Event     string    `db:"event"`
	ActorID   uuid.UUID `db:"actor_id"`
	ActorRole string    `db:"actor_role"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

type TransitionRepository struct {
	db *sqlx.DB
}

func NewTransitionRepository(db *sqlx.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) Record(ctx context.Context, tr *entity.Transition) error {
	query := `
		INSERT INTO moderation_transitions (id, subject, subject_id, from_status, to_status, event, actor_id, actor_role, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		tr.ID,
		string(tr.Subject),
		tr.SubjectID,
		tr.From,
		tr.To,
		tr.Event,
		tr.ActorID,
		string(tr.ActorRole),
		tr.Reason,
		tr.At,
	)
	if err != nil {
		return mapError(err, "не удалось записать историю модерации")
	}
	return nil
}

func (r *TransitionRepository) ListBySubject(ctx context.Context, subject entity.SubjectType, subjectID int64) ([]*entity.Transition, error) {
	query := `
		SELECT id, subject, subject_id, from_status, to_status, event, actor_id, actor_role, reason, created_at
		FROM moderation_transitions
		WHERE subject = $1 AND subject_id = $2
		ORDER BY created_at ASC, id ASC
	`
	var rows []transitionRow
	if err := executorFrom(ctx, r.db).SelectContext(ctx, &rows, query, string(subject), subjectID); err != nil {
		return nil, mapError(err, "не удалось получить историю модерации")
	}

	out := make([]*entity.Transition, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Transition{
			ID:        row.ID,
			Subject:   entity.SubjectType(row.Subject),
			SubjectID: row.SubjectID,
			From:      row.From,
			To:        row.To,
			Event:     row.Event,
			ActorID:   row.ActorID,
			ActorRole: valueobject.Role(row.ActorRole),
			Reason:    row.Reason,
			At:        row.CreatedAt,
		})
	}
	return out, nil
}

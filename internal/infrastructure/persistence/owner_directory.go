package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

// OwnerDirectory читает снимок владельца из таблицы users.
// Пользователи заводятся внешним сервисом, поэтому строки может ещё не быть.
type OwnerDirectory struct {
	db *sqlx.DB
}

func NewOwnerDirectory(db *sqlx.DB) *OwnerDirectory {
	return &OwnerDirectory{db: db}
}

func (d *OwnerDirectory) Snapshot(ctx context.Context, userID uuid.UUID) (entity.OwnerSnapshot, error) {
	var snap entity.OwnerSnapshot
	err := executorFrom(ctx, d.db).QueryRowxContext(ctx, `SELECT name, phone FROM users WHERE id = $1`, userID).
		Scan(&snap.Name, &snap.Phone)
	return ownerSnapshot(userID, snap, err)
}

// ownerSnapshot: неизвестный пользователь получает пустой снимок, как в хранилище в памяти.
func ownerSnapshot(userID uuid.UUID, snap entity.OwnerSnapshot, err error) (entity.OwnerSnapshot, error) {
	if errors.Is(err, sql.ErrNoRows) {
		logger.L().WithField("user_id", userID).Warn("persistence: пользователь не найден в users, снимок владельца пуст")
		return entity.OwnerSnapshot{}, nil
	}
	if err != nil {
		return entity.OwnerSnapshot{}, mapError(err, "не удалось получить пользователя")
	}
	return snap, nil
}

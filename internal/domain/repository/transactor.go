package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

// Transactor выполняет fn в одной транзакции. Репозитории, получившие ctx из fn,
// работают внутри неё. Вложенный вызов присоединяется к внешней транзакции.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OwnerDirectory - внешний справочник пользователей, из него берётся снимок владельца.
type OwnerDirectory interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (entity.OwnerSnapshot, error)
}

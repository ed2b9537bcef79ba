package repository

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

type TransitionRepository interface {
	Record(ctx context.Context, tr *entity.Transition) error
	ListBySubject(ctx context.Context, subject entity.SubjectType, subjectID int64) ([]*entity.Transition, error)
}

package memory

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

type TransitionRepository struct {
	store *Store
}

func NewTransitionRepository(store *Store) *TransitionRepository {
	return &TransitionRepository{store: store}
}

func (r *TransitionRepository) Record(ctx context.Context, tr *entity.Transition) error {
	defer r.store.lock(ctx)()

	c := *tr
	r.store.transitions = append(r.store.transitions, &c)
	return nil
}

// ListBySubject возвращает историю в порядке записи.
func (r *TransitionRepository) ListBySubject(ctx context.Context, subject entity.SubjectType, subjectID int64) ([]*entity.Transition, error) {
	defer r.store.lock(ctx)()

	out := make([]*entity.Transition, 0)
	for _, tr := range r.store.transitions {
		if tr.Subject == subject && tr.SubjectID == subjectID {
			c := *tr
			out = append(out, &c)
		}
	}
	return out, nil
}

package listing

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type ListingHistoryUseCase struct {
	deps Deps
}

func NewListingHistoryUseCase(deps Deps) *ListingHistoryUseCase {
	return &ListingHistoryUseCase{deps: deps}
}

// Execute возвращает журнал переходов объявления, старые записи первыми.
func (uc *ListingHistoryUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64) ([]*entity.Transition, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if _, err := uc.deps.Listings.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.deps.Transitions.ListBySubject(ctx, entity.SubjectListing, id)
}

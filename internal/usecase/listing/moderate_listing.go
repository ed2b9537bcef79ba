package listing

import (
	"context"
	"time"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type ApproveListingUseCase struct {
	deps Deps
	ttl  time.Duration
}

// NewApproveListingUseCase: ttl задаёт срок публикации, 0 - без срока.
func NewApproveListingUseCase(deps Deps, ttl time.Duration) *ApproveListingUseCase {
	return &ApproveListingUseCase{deps: deps, ttl: ttl}
}

func (uc *ApproveListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64) (*entity.Listing, error) {
	return uc.deps.transition(ctx, id, actor, event.ListingApproved, func(l *entity.Listing, now time.Time) (*entity.Transition, error) {
		return l.Approve(actor, uc.ttl, now)
	})
}

type RejectListingInput struct {
	Reason  string
	Comment string
}

type RejectListingUseCase struct {
	deps Deps
}

func NewRejectListingUseCase(deps Deps) *RejectListingUseCase {
	return &RejectListingUseCase{deps: deps}
}

func (uc *RejectListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64, input RejectListingInput) (*entity.Listing, error) {
	return uc.deps.transition(ctx, id, actor, event.ListingRejected, func(l *entity.Listing, now time.Time) (*entity.Transition, error) {
		return l.Reject(actor, input.Reason, input.Comment, now)
	})
}

type ReopenListingUseCase struct {
	deps Deps
}

func NewReopenListingUseCase(deps Deps) *ReopenListingUseCase {
	return &ReopenListingUseCase{deps: deps}
}

// Execute возвращает отклонённое объявление на модерацию.
// Чужое объявление для не-администратора выглядит как отсутствующее.
func (uc *ReopenListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64) (*entity.Listing, error) {
	return uc.deps.transition(ctx, id, actor, event.ListingReopened, func(l *entity.Listing, now time.Time) (*entity.Transition, error) {
		if !actor.IsAdmin() && !l.IsOwnedBy(actor.UserID) {
			return nil, apperror.ErrListingNotFound
		}
		return l.Reopen(actor, now)
	})
}

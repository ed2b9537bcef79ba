package listing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

const expireBatchSize = 100

type ExpireListingUseCase struct {
	deps Deps
}

func NewExpireListingUseCase(deps Deps) *ExpireListingUseCase {
	return &ExpireListingUseCase{deps: deps}
}

// Execute снимает объявление с публикации по истечении срока. Статус остаётся published.
func (uc *ExpireListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64) (*entity.Listing, error) {
	return uc.deps.transition(ctx, id, actor, event.ListingExpired, func(l *entity.Listing, now time.Time) (*entity.Transition, error) {
		return l.Expire(actor, now)
	})
}

// ExpireDue проходит по опубликованным объявлениям с истёкшим сроком и применяет expire
// от имени системы. Возвращает число снятых объявлений.
func (uc *ExpireListingUseCase) ExpireDue(ctx context.Context) (int, error) {
	actor := valueobject.SystemActor()
	expired := 0

	for {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		now := uc.deps.now()
		filter := repository.ListingFilter{DueForExpiry: &now, Sort: repository.SortSubmittedAsc}
		items, _, err := uc.deps.Listings.List(ctx, filter, valueobject.PageRequest{Page: 1, PerPage: expireBatchSize})
		if err != nil {
			return expired, err
		}

		progressed := 0
		for _, l := range items {
			if _, err := uc.Execute(ctx, actor, l.ID); err != nil {
				// объявление успели изменить параллельно, это не ошибка обхода
				if apperror.IsInvalidTransition(err) || apperror.IsNotFound(err) {
					continue
				}
				return expired, err
			}
			expired++
			progressed++
		}

		if len(items) < expireBatchSize || progressed == 0 {
			break
		}
	}

	if expired > 0 {
		logger.WithFields(logrus.Fields{"expired": expired}).Info("сняты объявления с истёкшим сроком")
	}
	return expired, nil
}

package listing

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type GetListingUseCase struct {
	deps Deps
}

func NewGetListingUseCase(deps Deps) *GetListingUseCase {
	return &GetListingUseCase{deps: deps}
}

// Public отдаёт только видимое в выдаче объявление и считает просмотр.
func (uc *GetListingUseCase) Public(ctx context.Context, id int64) (*entity.Listing, error) {
	l, err := uc.deps.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsListable() {
		return nil, apperror.ErrListingNotFound
	}
	if err := uc.deps.Listings.IncrementViews(ctx, id); err != nil {
		logger.WithFields(logrus.Fields{"listing_id": id}).WithError(err).Warn("не удалось увеличить счётчик просмотров")
	} else {
		l.Views++
	}
	return l, nil
}

// Execute отдаёт объявление в любом статусе администратору или владельцу.
func (uc *GetListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64) (*entity.Listing, error) {
	l, err := uc.deps.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !l.IsOwnedBy(actor.UserID) {
		return nil, apperror.ErrListingNotFound
	}
	return l, nil
}

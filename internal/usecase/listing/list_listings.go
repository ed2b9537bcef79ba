package listing

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type ListListingsUseCase struct {
	deps Deps
}

func NewListListingsUseCase(deps Deps) *ListListingsUseCase {
	return &ListListingsUseCase{deps: deps}
}

// ByStatus - очередь модерации для администратора.
func (uc *ListListingsUseCase) ByStatus(ctx context.Context, actor valueobject.Actor, filter repository.ListingFilter, page valueobject.PageRequest) ([]*entity.Listing, valueobject.Page, error) {
	if !actor.IsAdmin() {
		return nil, valueobject.Page{}, apperror.ErrForbidden
	}
	filter.ListableOnly = false
	filter.DueForExpiry = nil
	return uc.deps.Listings.List(ctx, filter, page)
}

// Public - публичная выдача: только опубликованные и не истёкшие.
func (uc *ListListingsUseCase) Public(ctx context.Context, filter repository.ListingFilter, page valueobject.PageRequest) ([]*entity.Listing, valueobject.Page, error) {
	filter.Status = ""
	filter.OwnerID = nil
	filter.DueForExpiry = nil
	filter.ListableOnly = true
	return uc.deps.Listings.List(ctx, filter, page)
}

// ByOwner - объявления текущего пользователя в любом статусе.
func (uc *ListListingsUseCase) ByOwner(ctx context.Context, actor valueobject.Actor, filter repository.ListingFilter, page valueobject.PageRequest) ([]*entity.Listing, valueobject.Page, error) {
	owner := actor.UserID
	filter.OwnerID = &owner
	filter.ListableOnly = false
	filter.DueForExpiry = nil
	return uc.deps.Listings.List(ctx, filter, page)
}

package listing

import (
	"context"
	"time"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

// UpdateListingInput - частичная правка: nil означает «не менять».
type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	Currency    *string
	Location    *entity.Location
	Contacts    *entity.Contacts
	PlanType    *string
	Attributes  map[string]string
	MainImage   *string
	Gallery     []string
	// Version - ожидаемая версия, 0 отключает проверку.
	Version int64
}

type UpdateListingUseCase struct {
	deps    Deps
	catalog Catalog
}

func NewUpdateListingUseCase(deps Deps, catalog Catalog) *UpdateListingUseCase {
	return &UpdateListingUseCase{deps: deps, catalog: catalog}
}

func (uc *UpdateListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64, input UpdateListingInput) (*entity.Listing, error) {
	return uc.deps.transition(ctx, id, actor, event.ListingUpdated, func(l *entity.Listing, now time.Time) (*entity.Transition, error) {
		if !l.IsOwnedBy(actor.UserID) {
			return nil, apperror.ErrListingNotFound
		}
		if !l.Status.IsEditableByOwner() {
			return nil, apperror.InvalidTransition(string(l.Status), string(valueobject.EventEdit))
		}
		if input.Version != 0 && input.Version != l.Version {
			return nil, apperror.ErrVersionConflict
		}
		schema, err := uc.catalog.SchemaFor(l.Category)
		if err != nil {
			return nil, err
		}
		content, err := buildContent(schema, mergeContent(l, input))
		if err != nil {
			return nil, err
		}
		return l.Edit(actor, content, now)
	})
}

func mergeContent(l *entity.Listing, in UpdateListingInput) ContentInput {
	c := ContentInput{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price.Amount,
		Currency:    l.Price.Currency,
		Location:    l.Location,
		Contacts:    l.Contacts,
		PlanType:    string(l.PlanType),
		Attributes:  l.Attributes,
		MainImage:   l.MainImage,
		Gallery:     l.Gallery,
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Currency != nil {
		c.Currency = *in.Currency
	}
	if in.Location != nil {
		c.Location = *in.Location
	}
	if in.Contacts != nil {
		c.Contacts = *in.Contacts
	}
	if in.PlanType != nil {
		c.PlanType = *in.PlanType
	}
	if in.Attributes != nil {
		c.Attributes = in.Attributes
	}
	if in.MainImage != nil {
		c.MainImage = *in.MainImage
	}
	if in.Gallery != nil {
		c.Gallery = in.Gallery
	}
	return c
}

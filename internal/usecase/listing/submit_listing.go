package listing

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/catalog"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
)

// Catalog - источник схем категорий.
type Catalog interface {
	SchemaFor(slug valueobject.CategorySlug) (*entity.CategorySchema, error)
}

type ContentInput struct {
	Title       string
	Description string
	Price       float64
	Currency    string
	Location    entity.Location
	Contacts    entity.Contacts
	PlanType    string
	Attributes  map[string]string
	MainImage   string
	Gallery     []string
}

type SubmitListingInput struct {
	Category string
	ContentInput
}

// buildContent проверяет атрибуты по схеме и собирает поля владельца.
func buildContent(schema *entity.CategorySchema, in ContentInput) (entity.ListingContent, error) {
	attrs := catalog.Clean(in.Attributes)
	if err := catalog.ValidateAgainst(schema, attrs); err != nil {
		return entity.ListingContent{}, err
	}
	price, err := valueobject.NewMoney(in.Price, in.Currency)
	if err != nil {
		return entity.ListingContent{}, err
	}
	plan, err := valueobject.ParsePlanType(in.PlanType)
	if err != nil {
		return entity.ListingContent{}, err
	}
	return entity.ListingContent{
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Location:    in.Location,
		Contacts:    in.Contacts,
		PlanType:    plan,
		Attributes:  attrs,
		MainImage:   in.MainImage,
		Gallery:     in.Gallery,
	}, nil
}

type SubmitListingUseCase struct {
	deps    Deps
	catalog Catalog
	owners  repository.OwnerDirectory
}

func NewSubmitListingUseCase(deps Deps, catalog Catalog, owners repository.OwnerDirectory) *SubmitListingUseCase {
	return &SubmitListingUseCase{deps: deps, catalog: catalog, owners: owners}
}

// Execute создаёт объявление в статусе pending после проверки по схеме категории.
func (uc *SubmitListingUseCase) Execute(ctx context.Context, actor valueobject.Actor, input SubmitListingInput) (*entity.Listing, error) {
	schema, err := uc.catalog.SchemaFor(valueobject.CategorySlug(input.Category))
	if err != nil {
		return nil, err
	}
	content, err := buildContent(schema, input.ContentInput)
	if err != nil {
		return nil, err
	}
	owner, err := uc.owners.Snapshot(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	l, err := entity.NewListing(actor, owner, schema, content, uc.deps.now())
	if err != nil {
		return nil, err
	}

	var tr *entity.Transition
	err = uc.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.deps.Listings.Create(ctx, l); err != nil {
			return err
		}
		tr = l.Submitted(actor)
		return uc.deps.Transitions.Record(ctx, tr)
	})
	if err != nil {
		return nil, err
	}

	uc.deps.publish(ctx, event.FromListing(event.ListingSubmitted, l, tr))
	return l, nil
}

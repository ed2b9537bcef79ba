package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type ListingRepository struct {
	store *Store
}

func NewListingRepository(store *Store) *ListingRepository {
	return &ListingRepository{store: store}
}

func (r *ListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	defer r.store.lock(ctx)()

	r.store.nextListingID++
	listing.ID = r.store.nextListingID
	r.store.listings[listing.ID] = listing.Clone()
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*entity.Listing, error) {
	defer r.store.lock(ctx)()

	l, ok := r.store.listings[id]
	if !ok {
		return nil, apperror.ErrListingNotFound
	}
	return l.Clone(), nil
}

func (r *ListingRepository) List(ctx context.Context, filter repository.ListingFilter, req valueobject.PageRequest) ([]*entity.Listing, valueobject.Page, error) {
	defer r.store.lock(ctx)()

	matched := make([]*entity.Listing, 0)
	for _, l := range r.store.listings {
		if matchListing(l, filter) {
			matched = append(matched, l)
		}
	}
	sortListings(matched, filter.Sort)

	page := req.Resolve(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]*entity.Listing, 0, end-start)
	for _, l := range matched[start:end] {
		items = append(items, l.Clone())
	}
	return items, page, nil
}

func (r *ListingRepository) Update(ctx context.Context, id int64, fn func(listing *entity.Listing) error) (*entity.Listing, error) {
	defer r.store.lock(ctx)()

	current, ok := r.store.listings[id]
	if !ok {
		return nil, apperror.ErrListingNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.store.listings[id] = next
	return next.Clone(), nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id int64) error {
	defer r.store.lock(ctx)()

	current, ok := r.store.listings[id]
	if !ok {
		return apperror.ErrListingNotFound
	}
	next := current.Clone()
	next.Views++
	r.store.listings[id] = next
	return nil
}

func matchListing(l *entity.Listing, f repository.ListingFilter) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.OwnerID != nil && l.OwnerID != *f.OwnerID {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.Governorate != "" && !strings.EqualFold(l.Location.Governorate, f.Governorate) {
		return false
	}
	if f.City != "" && !strings.EqualFold(l.Location.City, f.City) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.Title), needle) && !strings.Contains(strings.ToLower(l.Description), needle) {
			return false
		}
	}
	if f.MinPrice != nil && l.Price.Amount < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price.Amount > *f.MaxPrice {
		return false
	}
	if f.ListableOnly && !l.IsListable() {
		return false
	}
	if f.DueForExpiry != nil {
		if l.Status != valueobject.ListingStatusPublished || l.Expired || l.ExpiresAt == nil || l.ExpiresAt.After(*f.DueForExpiry) {
			return false
		}
	}
	return true
}

func sortListings(items []*entity.Listing, order repository.ListingSort) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case repository.SortSubmittedAsc:
			if !a.SubmittedAt.Equal(b.SubmittedAt) {
				return a.SubmittedAt.Before(b.SubmittedAt)
			}
			return a.ID < b.ID
		case repository.SortPriceAsc:
			if a.Price.Amount != b.Price.Amount {
				return a.Price.Amount < b.Price.Amount
			}
		case repository.SortPriceDesc:
			if a.Price.Amount != b.Price.Amount {
				return a.Price.Amount > b.Price.Amount
			}
		case repository.SortViewsDesc:
			if a.Views != b.Views {
				return a.Views > b.Views
			}
		default:
			if !a.SubmittedAt.Equal(b.SubmittedAt) {
				return a.SubmittedAt.After(b.SubmittedAt)
			}
		}
		return a.ID > b.ID
	})
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
)

// ListingRepository хранит объявления.
// Update блокирует запись на время fn: статус и поля модерации меняются атомарно,
// а конкурентный вызов видит уже зафиксированное состояние.
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	FindByID(ctx context.Context, id int64) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter, page valueobject.PageRequest) ([]*entity.Listing, valueobject.Page, error)
	Update(ctx context.Context, id int64, fn func(listing *entity.Listing) error) (*entity.Listing, error)
	IncrementViews(ctx context.Context, id int64) error
}

type ListingSort string

const (
	SortSubmittedDesc ListingSort = "submitted_desc"
	SortSubmittedAsc  ListingSort = "submitted_asc"
	SortPriceAsc      ListingSort = "price_asc"
	SortPriceDesc     ListingSort = "price_desc"
	SortViewsDesc     ListingSort = "views_desc"
)

// ParseListingSort возвращает сортировку по умолчанию для пустых и неизвестных значений.
func ParseListingSort(v string) ListingSort {
	switch s := ListingSort(v); s {
	case SortSubmittedAsc, SortPriceAsc, SortPriceDesc, SortViewsDesc:
		return s
	}
	return SortSubmittedDesc
}

type ListingFilter struct {
	Status      valueobject.ListingStatus
	OwnerID     *uuid.UUID
	Category    valueobject.CategorySlug
	Governorate string
	City        string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	// ListableOnly оставляет только опубликованные и не истёкшие.
	ListableOnly bool
	// DueForExpiry оставляет опубликованные, у которых expires_at <= значения.
	DueForExpiry *time.Time
	Sort         ListingSort
}

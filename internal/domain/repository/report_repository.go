package repository

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
)

// ReportRepository хранит агрегаты жалоб. Ключ дедупликации - (listing_id) среди открытых агрегатов.
type ReportRepository interface {
	// LockOpenByListing вызывается внутри транзакции и сериализует подачу жалоб на одно объявление.
	// Возвращает nil без ошибки, если открытого агрегата нет.
	LockOpenByListing(ctx context.Context, listingID int64) (*entity.Report, error)
	Create(ctx context.Context, report *entity.Report) error
	FindByID(ctx context.Context, id int64) (*entity.Report, error)
	List(ctx context.Context, filter ReportFilter, page valueobject.PageRequest) ([]*entity.Report, valueobject.Page, error)
	Update(ctx context.Context, id int64, fn func(report *entity.Report) error) (*entity.Report, error)
}

type ReportFilter struct {
	Status    valueobject.ReportStatus
	ListingID int64
}

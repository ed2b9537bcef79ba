package memory

import (
	"context"
	"sort"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type ReportRepository struct {
	store *Store
}

func NewReportRepository(store *Store) *ReportRepository {
	return &ReportRepository{store: store}
}

func (r *ReportRepository) openForListing(listingID int64) *entity.Report {
	for _, rep := range r.store.reports {
		if rep.ListingID == listingID && rep.Status == valueobject.ReportStatusOpen {
			return rep
		}
	}
	return nil
}

func (r *ReportRepository) LockOpenByListing(ctx context.Context, listingID int64) (*entity.Report, error) {
	defer r.store.lock(ctx)()

	if rep := r.openForListing(listingID); rep != nil {
		return rep.Clone(), nil
	}
	return nil, nil
}

// Create повторяет уникальный индекс PostgreSQL: на объявление не больше одного открытого агрегата.
func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	defer r.store.lock(ctx)()

	if report.Status == valueobject.ReportStatusOpen && r.openForListing(report.ListingID) != nil {
		return apperror.ErrConcurrentUpdate
	}
	r.store.nextReportID++
	report.ID = r.store.nextReportID
	r.store.reports[report.ID] = report.Clone()
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*entity.Report, error) {
	defer r.store.lock(ctx)()

	rep, ok := r.store.reports[id]
	if !ok {
		return nil, apperror.ErrReportNotFound
	}
	return rep.Clone(), nil
}

func (r *ReportRepository) List(ctx context.Context, filter repository.ReportFilter, req valueobject.PageRequest) ([]*entity.Report, valueobject.Page, error) {
	defer r.store.lock(ctx)()

	matched := make([]*entity.Report, 0)
	for _, rep := range r.store.reports {
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		if filter.ListingID != 0 && rep.ListingID != filter.ListingID {
			continue
		}
		matched = append(matched, rep)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	page := req.Resolve(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]*entity.Report, 0, end-start)
	for _, rep := range matched[start:end] {
		items = append(items, rep.Clone())
	}
	return items, page, nil
}

func (r *ReportRepository) Update(ctx context.Context, id int64, fn func(report *entity.Report) error) (*entity.Report, error) {
	defer r.store.lock(ctx)()

	current, ok := r.store.reports[id]
	if !ok {
		return nil, apperror.ErrReportNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.store.reports[id] = next
	return next.Clone(), nil
}

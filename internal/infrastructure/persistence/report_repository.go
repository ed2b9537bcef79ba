package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

const reportColumns = `
	id, listing_id, listing_title, listing_category, listing_category_name, reports_count,
	reasons, reporter_ids, status, resolved_by, resolved_at, resolution_note, created_at, updated_at`

type reportRow struct {
	ID                  int64          `db:"id"`
	ListingID           int64          `db:"listing_id"`
	ListingTitle        string         `db:"listing_title"`
	ListingCategory     string         `db:"listing_category"`
	ListingCategoryName string         `db:"listing_category_name"`
	ReportsCount        int            `db:"reports_count"`
	Reasons             pq.StringArray `db:"reasons"`
	ReporterIDs         pq.StringArray `db:"reporter_ids"`
	Status              string         `db:"status"`
	ResolvedBy          *uuid.UUID     `db:"resolved_by"`
	ResolvedAt          *time.Time     `db:"resolved_at"`
	ResolutionNote      string         `db:"resolution_note"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r reportRow) toEntity() (*entity.Report, error) {
	reporters := make([]uuid.UUID, 0, len(r.ReporterIDs))
	for _, raw := range r.ReporterIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("report %d: reporter id %q: %w", r.ID, raw, err)
		}
		reporters = append(reporters, id)
	}
	return &entity.Report{
		ID:        r.ID,
		ListingID: r.ListingID,
		Listing: entity.ListingSnapshot{
			Title:        r.ListingTitle,
			Category:     valueobject.CategorySlug(r.ListingCategory),
			CategoryName: r.ListingCategoryName,
		},
		ReportsCount:   r.ReportsCount,
		Reasons:        []string(r.Reasons),
		ReporterIDs:    reporters,
		Status:         valueobject.ReportStatus(r.Status),
		ResolvedBy:     r.ResolvedBy,
		ResolvedAt:     r.ResolvedAt,
		ResolutionNote: r.ResolutionNote,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

func reporterStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

type ReportRepository struct {
	db *sqlx.DB
	tx *Transactor
}

func NewReportRepository(db *sqlx.DB, tx *Transactor) *ReportRepository {
	return &ReportRepository{db: db, tx: tx}
}

// LockOpenByListing берёт транзакционную advisory-блокировку по id объявления:
// параллельные подачи жалоб на одно объявление выстраиваются в очередь,
// и вторая видит агрегат, созданный первой.
func (r *ReportRepository) LockOpenByListing(ctx context.Context, listingID int64) (*entity.Report, error) {
	exec := executorFrom(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, listingID); err != nil {
		return nil, mapError(err, "не удалось заблокировать жалобы объявления")
	}

	var row reportRow
	query := `SELECT ` + reportColumns + ` FROM reports WHERE listing_id = $1 AND status = 'open' FOR UPDATE`
	if err := exec.GetContext(ctx, &row, query, listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "не удалось получить открытую жалобу")
	}
	return row.toEntity()
}

func (r *ReportRepository) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO reports (
			listing_id, listing_title, listing_category, listing_category_name, reports_count,
			reasons, reporter_ids, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := executorFrom(ctx, r.db).QueryRowxContext(ctx, query,
		rep.ListingID,
		rep.Listing.Title,
		string(rep.Listing.Category),
		rep.Listing.CategoryName,
		rep.ReportsCount,
		pq.Array(nonNilStrings(rep.Reasons)),
		pq.Array(reporterStrings(rep.ReporterIDs)),
		string(rep.Status),
		rep.CreatedAt,
		rep.UpdatedAt,
	).Scan(&rep.ID)
	if err != nil {
		return mapError(err, "не удалось создать жалобу")
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*entity.Report, error) {
	return r.findByID(ctx, id, false)
}

func (r *ReportRepository) findByID(ctx context.Context, id int64, forUpdate bool) (*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row reportRow
	if err := executorFrom(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrReportNotFound
		}
		return nil, mapError(err, "не удалось получить жалобу")
	}
	return row.toEntity()
}

func (r *ReportRepository) Update(ctx context.Context, id int64, fn func(report *entity.Report) error) (*entity.Report, error) {
	var updated *entity.Report
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		rep, err := r.findByID(ctx, id, true)
		if err != nil {
			return err
		}
		if err := fn(rep); err != nil {
			return err
		}
		query := `
			UPDATE reports
			SET reports_count = $2, reasons = $3, reporter_ids = $4, status = $5,
			    resolved_by = $6, resolved_at = $7, resolution_note = $8, updated_at = $9
			WHERE id = $1
		`
		_, err = executorFrom(ctx, r.db).ExecContext(ctx, query,
			rep.ID,
			rep.ReportsCount,
			pq.Array(nonNilStrings(rep.Reasons)),
			pq.Array(reporterStrings(rep.ReporterIDs)),
			string(rep.Status),
			rep.ResolvedBy,
			rep.ResolvedAt,
			rep.ResolutionNote,
			rep.UpdatedAt,
		)
		if err != nil {
			return mapError(err, "не удалось обновить жалобу")
		}
		updated = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *ReportRepository) List(ctx context.Context, filter repository.ReportFilter, req valueobject.PageRequest) ([]*entity.Report, valueobject.Page, error) {
	var where string
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ListingID != 0 {
		args = append(args, filter.ListingID)
		where += fmt.Sprintf(" AND listing_id = $%d", len(args))
	}

	exec := executorFrom(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM reports WHERE 1=1`+where, args...); err != nil {
		return nil, valueobject.Page{}, mapError(err, "не удалось посчитать жалобы")
	}
	page := req.Resolve(total)

	query := fmt.Sprintf(`SELECT %s FROM reports WHERE 1=1%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		reportColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	var rows []reportRow
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, valueobject.Page{}, mapError(err, "не удалось получить жалобы")
	}

	items := make([]*entity.Report, 0, len(rows))
	for _, row := range rows {
		rep, err := row.toEntity()
		if err != nil {
			return nil, valueobject.Page{}, mapError(err, "повреждённая запись жалобы")
		}
		items = append(items, rep)
	}
	return items, page, nil
}

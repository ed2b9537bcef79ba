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

const listingColumns = `
	id, category, category_name, status, title, description, price_amount, price_currency,
	governorate, city, address, lat, lng, contact_phone, contact_whatsapp, contact_email,
	plan_type, attributes, main_image, gallery, owner_id, owner_name, owner_phone,
	admin_comment, rejection_reason, submitted_at, published_at, expires_at, expired,
	views, rank, version, created_at, updated_at`

type listingRow struct {
	ID              int64          `db:"id"`
	Category        string         `db:"category"`
	CategoryName    string         `db:"category_name"`
	Status          string         `db:"status"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	PriceAmount     float64        `db:"price_amount"`
	PriceCurrency   string         `db:"price_currency"`
	Governorate     string         `db:"governorate"`
	City            string         `db:"city"`
	Address         string         `db:"address"`
	Lat             *float64       `db:"lat"`
	Lng             *float64       `db:"lng"`
	ContactPhone    string         `db:"contact_phone"`
	ContactWhatsApp string         `db:"contact_whatsapp"`
	ContactEmail    string         `db:"contact_email"`
	PlanType        string         `db:"plan_type"`
	Attributes      attributes     `db:"attributes"`
	MainImage       string         `db:"main_image"`
	Gallery         pq.StringArray `db:"gallery"`
	OwnerID         uuid.UUID      `db:"owner_id"`
	OwnerName       string         `db:"owner_name"`
	OwnerPhone      string         `db:"owner_phone"`
	AdminComment    string         `db:"admin_comment"`
	RejectionReason string         `db:"rejection_reason"`
	SubmittedAt     time.Time      `db:"submitted_at"`
	PublishedAt     *time.Time     `db:"published_at"`
	ExpiresAt       *time.Time     `db:"expires_at"`
	Expired         bool           `db:"expired"`
	Views           int64          `db:"views"`
	Rank            int            `db:"rank"`
	Version         int64          `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r listingRow) toEntity() *entity.Listing {
	return &entity.Listing{
		ID:           r.ID,
		Category:     valueobject.CategorySlug(r.Category),
		CategoryName: r.CategoryName,
		Status:       valueobject.ListingStatus(r.Status),
		Title:        r.Title,
		Description:  r.Description,
		Price:        valueobject.Money{Amount: r.PriceAmount, Currency: r.PriceCurrency},
		Location: entity.Location{
			Governorate: r.Governorate,
			City:        r.City,
			Address:     r.Address,
			Lat:         r.Lat,
			Lng:         r.Lng,
		},
		Contacts: entity.Contacts{
			Phone:    r.ContactPhone,
			WhatsApp: r.ContactWhatsApp,
			Email:    r.ContactEmail,
		},
		PlanType:        valueobject.PlanType(r.PlanType),
		Attributes:      map[string]string(r.Attributes),
		MainImage:       r.MainImage,
		Gallery:         []string(r.Gallery),
		OwnerID:         r.OwnerID,
		Owner:           entity.OwnerSnapshot{Name: r.OwnerName, Phone: r.OwnerPhone},
		AdminComment:    r.AdminComment,
		RejectionReason: r.RejectionReason,
		SubmittedAt:     r.SubmittedAt,
		PublishedAt:     r.PublishedAt,
		ExpiresAt:       r.ExpiresAt,
		Expired:         r.Expired,
		Views:           r.Views,
		Rank:            r.Rank,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type ListingRepository struct {
	db *sqlx.DB
	tx *Transactor
}

func NewListingRepository(db *sqlx.DB, tx *Transactor) *ListingRepository {
	return &ListingRepository{db: db, tx: tx}
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO listings (
			category, category_name, status, title, description, price_amount, price_currency,
			governorate, city, address, lat, lng, contact_phone, contact_whatsapp, contact_email,
			plan_type, attributes, main_image, gallery, owner_id, owner_name, owner_phone,
			submitted_at, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING id
	`
	err := executorFrom(ctx, r.db).QueryRowxContext(ctx, query,
		string(l.Category),
		l.CategoryName,
		string(l.Status),
		l.Title,
		l.Description,
		l.Price.Amount,
		l.Price.Currency,
		l.Location.Governorate,
		l.Location.City,
		l.Location.Address,
		l.Location.Lat,
		l.Location.Lng,
		l.Contacts.Phone,
		l.Contacts.WhatsApp,
		l.Contacts.Email,
		string(l.PlanType),
		attributes(l.Attributes),
		l.MainImage,
		pq.Array(nonNilStrings(l.Gallery)),
		l.OwnerID,
		l.Owner.Name,
		l.Owner.Phone,
		l.SubmittedAt,
		l.Version,
		l.CreatedAt,
		l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return mapError(err, "не удалось создать объявление")
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*entity.Listing, error) {
	return r.findByID(ctx, id, false)
}

func (r *ListingRepository) findByID(ctx context.Context, id int64, forUpdate bool) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row listingRow
	if err := executorFrom(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, mapError(err, "не удалось получить объявление")
	}
	return row.toEntity(), nil
}

// Update блокирует строку до конца транзакции, fn видит последнее зафиксированное состояние.
func (r *ListingRepository) Update(ctx context.Context, id int64, fn func(listing *entity.Listing) error) (*entity.Listing, error) {
	var updated *entity.Listing
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := r.findByID(ctx, id, true)
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		if err := r.save(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *ListingRepository) save(ctx context.Context, l *entity.Listing) error {
	query := `
		UPDATE listings
		SET status = $2, title = $3, description = $4, price_amount = $5, price_currency = $6,
		    governorate = $7, city = $8, address = $9, lat = $10, lng = $11,
		    contact_phone = $12, contact_whatsapp = $13, contact_email = $14, plan_type = $15,
		    attributes = $16, main_image = $17, gallery = $18, admin_comment = $19,
		    rejection_reason = $20, submitted_at = $21, published_at = $22, expires_at = $23,
		    expired = $24, rank = $25, version = $26, updated_at = $27
		WHERE id = $1
	`
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		l.ID,
		string(l.Status),
		l.Title,
		l.Description,
		l.Price.Amount,
		l.Price.Currency,
		l.Location.Governorate,
		l.Location.City,
		l.Location.Address,
		l.Location.Lat,
		l.Location.Lng,
		l.Contacts.Phone,
		l.Contacts.WhatsApp,
		l.Contacts.Email,
		string(l.PlanType),
		attributes(l.Attributes),
		l.MainImage,
		pq.Array(nonNilStrings(l.Gallery)),
		l.AdminComment,
		l.RejectionReason,
		l.SubmittedAt,
		l.PublishedAt,
		l.ExpiresAt,
		l.Expired,
		l.Rank,
		l.Version,
		l.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "не удалось обновить объявление")
	}
	return nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id int64) error {
	res, err := executorFrom(ctx, r.db).ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "не удалось обновить счётчик просмотров")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrListingNotFound
	}
	return nil
}

// List считает total, прижимает страницу к допустимому диапазону и только потом выбирает строки.
func (r *ListingRepository) List(ctx context.Context, filter repository.ListingFilter, req valueobject.PageRequest) ([]*entity.Listing, valueobject.Page, error) {
	where, args := buildListingWhere(filter)
	exec := executorFrom(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM listings WHERE 1=1`+where, args...); err != nil {
		return nil, valueobject.Page{}, mapError(err, "не удалось посчитать объявления")
	}
	page := req.Resolve(total)

	query := fmt.Sprintf(`SELECT %s FROM listings WHERE 1=1%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, where, listingOrderBy(filter.Sort), len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	var rows []listingRow
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, valueobject.Page{}, mapError(err, "не удалось получить объявления")
	}

	items := make([]*entity.Listing, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, page, nil
}

func buildListingWhere(f repository.ListingFilter) (string, []interface{}) {
	var where string
	args := []interface{}{}
	argIndex := 1

	add := func(clause string, value interface{}) {
		where += fmt.Sprintf(clause, argIndex)
		args = append(args, value)
		argIndex++
	}

	if f.Status != "" {
		add(" AND status = $%d", string(f.Status))
	}
	if f.OwnerID != nil {
		add(" AND owner_id = $%d", *f.OwnerID)
	}
	if f.Category != "" {
		add(" AND category = $%d", string(f.Category))
	}
	if f.Governorate != "" {
		add(" AND governorate ILIKE $%d", f.Governorate)
	}
	if f.City != "" {
		add(" AND city ILIKE $%d", f.City)
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}
	if f.MinPrice != nil {
		add(" AND price_amount >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add(" AND price_amount <= $%d", *f.MaxPrice)
	}
	if f.ListableOnly {
		where += " AND status = 'published' AND expired = FALSE"
	}
	if f.DueForExpiry != nil {
		where += " AND status = 'published' AND expired = FALSE AND expires_at IS NOT NULL"
		add(" AND expires_at <= $%d", *f.DueForExpiry)
	}
	return where, args
}

func listingOrderBy(s repository.ListingSort) string {
	switch s {
	case repository.SortSubmittedAsc:
		return "submitted_at ASC, id ASC"
	case repository.SortPriceAsc:
		return "price_amount ASC, id DESC"
	case repository.SortPriceDesc:
		return "price_amount DESC, id DESC"
	case repository.SortViewsDesc:
		return "views DESC, id DESC"
	default:
		return "submitted_at DESC, id DESC"
	}
}

// nonNilStrings: pq.Array(nil) пишет NULL, а колонки массивов объявлены NOT NULL.
func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

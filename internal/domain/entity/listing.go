package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxGalleryImages     = 20
)

type Location struct {
	Governorate string   `json:"governorate"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

type Contacts struct {
	Phone    string `json:"phone,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Email    string `json:"email,omitempty"`
}

// OwnerSnapshot - денормализованные данные владельца только для отображения.
type OwnerSnapshot struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type Listing struct {
	ID              int64
	Category        valueobject.CategorySlug
	CategoryName    string
	Status          valueobject.ListingStatus
	Title           string
	Description     string
	Price           valueobject.Money
	Location        Location
	Contacts        Contacts
	PlanType        valueobject.PlanType
	Attributes      map[string]string
	MainImage       string
	Gallery         []string
	OwnerID         uuid.UUID
	Owner           OwnerSnapshot
	AdminComment    string
	RejectionReason string
	SubmittedAt     time.Time
	PublishedAt     *time.Time
	ExpiresAt       *time.Time
	Expired         bool
	Views           int64
	Rank            int
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListingContent - поля, которые задаёт владелец при подаче и правке.
type ListingContent struct {
	Title       string
	Description string
	Price       valueobject.Money
	Location    Location
	Contacts    Contacts
	PlanType    valueobject.PlanType
	Attributes  map[string]string
	MainImage   string
	Gallery     []string
}

func (c ListingContent) validate() error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return apperror.Validation("title", "название обязательно")
	}
	if len([]rune(title)) > maxTitleLength {
		return apperror.Validation("title", "название слишком длинное")
	}
	if len([]rune(c.Description)) > maxDescriptionLength {
		return apperror.Validation("description", "описание слишком длинное")
	}
	if len(c.Gallery) > maxGalleryImages {
		return apperror.Validation("gallery", "слишком много изображений")
	}
	if c.Location.Lat != nil && (*c.Location.Lat < -90 || *c.Location.Lat > 90) {
		return apperror.Validation("lat", "широта вне диапазона")
	}
	if c.Location.Lng != nil && (*c.Location.Lng < -180 || *c.Location.Lng > 180) {
		return apperror.Validation("lng", "долгота вне диапазона")
	}
	return nil
}

// NewListing создаёт объявление в статусе pending. Атрибуты должны быть уже проверены по схеме категории.
func NewListing(owner valueobject.Actor, ownerSnapshot OwnerSnapshot, category *CategorySchema, content ListingContent, now time.Time) (*Listing, error) {
	if owner.UserID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	if err := content.validate(); err != nil {
		return nil, err
	}
	plan := content.PlanType
	if plan == "" {
		plan = valueobject.PlanFree
	}

	return &Listing{
		Category:     category.Slug,
		CategoryName: category.Name,
		Status:       valueobject.ListingStatusPending,
		Title:        strings.TrimSpace(content.Title),
		Description:  content.Description,
		Price:        content.Price,
		Location:     content.Location,
		Contacts:     content.Contacts,
		PlanType:     plan,
		Attributes:   copyAttributes(content.Attributes),
		MainImage:    content.MainImage,
		Gallery:      append([]string(nil), content.Gallery...),
		OwnerID:      owner.UserID,
		Owner:        ownerSnapshot,
		SubmittedAt:  now,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Submitted возвращает запись аудита о подаче объявления. Вызывается после присвоения ID.
func (l *Listing) Submitted(actor valueobject.Actor) *Transition {
	return newTransition(SubjectListing, l.ID, "", string(l.Status), string(valueobject.EventSubmit), actor, "", l.CreatedAt)
}

func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID == userID
}

// IsListable - видно ли объявление в публичной выдаче.
func (l *Listing) IsListable() bool {
	return l.Status == valueobject.ListingStatusPublished && !l.Expired
}

// apply проверяет переход по таблице и только потом меняет состояние.
func (l *Listing) apply(event valueobject.ModerationEvent, actor valueobject.Actor, reason string, now time.Time) (*Transition, error) {
	to, err := l.Status.Next(event)
	if err != nil {
		return nil, err
	}
	tr := newTransition(SubjectListing, l.ID, string(l.Status), string(to), string(event), actor, reason, now)
	l.Status = to
	l.UpdatedAt = now
	l.Version++
	return tr, nil
}

func (l *Listing) Approve(actor valueobject.Actor, ttl time.Duration, now time.Time) (*Transition, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	tr, err := l.apply(valueobject.EventApprove, actor, "", now)
	if err != nil {
		return nil, err
	}
	published := now
	l.PublishedAt = &published
	if ttl > 0 {
		expires := now.Add(ttl)
		l.ExpiresAt = &expires
	} else {
		l.ExpiresAt = nil
	}
	l.Expired = false
	return tr, nil
}

func (l *Listing) Reject(actor valueobject.Actor, reason, comment string, now time.Time) (*Transition, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	// недопустимый переход важнее пустой причины
	if _, err := l.Status.Next(valueobject.EventReject); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation("reason", "причина отказа обязательна")
	}
	tr, err := l.apply(valueobject.EventReject, actor, reason, now)
	if err != nil {
		return nil, err
	}
	l.RejectionReason = reason
	l.AdminComment = strings.TrimSpace(comment)
	return tr, nil
}

// Reopen возвращает отклонённое объявление на модерацию. Доступно администратору и владельцу.
func (l *Listing) Reopen(actor valueobject.Actor, now time.Time) (*Transition, error) {
	if !actor.IsAdmin() && !l.IsOwnedBy(actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	tr, err := l.apply(valueobject.EventReopen, actor, "", now)
	if err != nil {
		return nil, err
	}
	l.RejectionReason = ""
	l.SubmittedAt = now
	return tr, nil
}

// Expire снимает опубликованное объявление с выдачи. Статус не меняется.
func (l *Listing) Expire(actor valueobject.Actor, now time.Time) (*Transition, error) {
	if !actor.IsSystem() && !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if l.Expired || l.ExpiresAt == nil || now.Before(*l.ExpiresAt) {
		return nil, apperror.InvalidTransition(string(l.Status), string(valueobject.EventExpire))
	}
	tr, err := l.apply(valueobject.EventExpire, actor, "", now)
	if err != nil {
		return nil, err
	}
	l.Expired = true
	return tr, nil
}

// RejectByReport отклоняет опубликованное объявление по принятой жалобе.
func (l *Listing) RejectByReport(actor valueobject.Actor, reasons string, now time.Time) (*Transition, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	tr, err := l.apply(valueobject.EventReportAccepted, actor, reasons, now)
	if err != nil {
		return nil, err
	}
	l.RejectionReason = reasons
	return tr, nil
}

// Edit - правка владельцем, пока объявление не опубликовано. Статус не меняется,
// но правка попадает в историю.
func (l *Listing) Edit(actor valueobject.Actor, content ListingContent, now time.Time) (*Transition, error) {
	if !l.IsOwnedBy(actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	if !l.Status.IsEditableByOwner() {
		return nil, apperror.InvalidTransition(string(l.Status), string(valueobject.EventEdit))
	}
	if err := content.validate(); err != nil {
		return nil, err
	}
	l.Title = strings.TrimSpace(content.Title)
	l.Description = content.Description
	l.Price = content.Price
	l.Location = content.Location
	l.Contacts = content.Contacts
	if content.PlanType != "" {
		l.PlanType = content.PlanType
	}
	l.Attributes = copyAttributes(content.Attributes)
	l.MainImage = content.MainImage
	l.Gallery = append([]string(nil), content.Gallery...)
	l.UpdatedAt = now
	l.Version++
	return newTransition(SubjectListing, l.ID, string(l.Status), string(l.Status), string(valueobject.EventEdit), actor, "", now), nil
}

// Content возвращает текущие поля владельца, удобно для частичной правки.
func (l *Listing) Content() ListingContent {
	return ListingContent{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Contacts:    l.Contacts,
		PlanType:    l.PlanType,
		Attributes:  copyAttributes(l.Attributes),
		MainImage:   l.MainImage,
		Gallery:     append([]string(nil), l.Gallery...),
	}
}

// Snapshot фиксирует данные объявления для жалобы.
func (l *Listing) Snapshot() ListingSnapshot {
	return ListingSnapshot{Title: l.Title, Category: l.Category, CategoryName: l.CategoryName}
}

// Clone делает глубокую копию, чтобы хранилище не отдавало общий указатель.
func (l *Listing) Clone() *Listing {
	c := *l
	c.Attributes = copyAttributes(l.Attributes)
	c.Gallery = append([]string(nil), l.Gallery...)
	if l.PublishedAt != nil {
		t := *l.PublishedAt
		c.PublishedAt = &t
	}
	if l.ExpiresAt != nil {
		t := *l.ExpiresAt
		c.ExpiresAt = &t
	}
	if l.Location.Lat != nil {
		v := *l.Location.Lat
		c.Location.Lat = &v
	}
	if l.Location.Lng != nil {
		v := *l.Location.Lng
		c.Location.Lng = &v
	}
	return &c
}

func copyAttributes(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/listing"
)

// Поля запросов без binding-тегов: обязательность и формат проверяет домен,
// чтобы клиент получил {field, reason}.

type SubmitListingRequest struct {
	Category    string            `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Currency    string            `json:"currency"`
	Location    entity.Location   `json:"location"`
	Contacts    entity.Contacts   `json:"contacts"`
	PlanType    string            `json:"plan_type"`
	Attributes  map[string]string `json:"attributes"`
	MainImage   string            `json:"main_image"`
	Gallery     []string          `json:"gallery"`
}

func (r SubmitListingRequest) ToInput() listing.SubmitListingInput {
	return listing.SubmitListingInput{
		Category: r.Category,
		ContentInput: listing.ContentInput{
			Title:       r.Title,
			Description: r.Description,
			Price:       r.Price,
			Currency:    r.Currency,
			Location:    r.Location,
			Contacts:    r.Contacts,
			PlanType:    r.PlanType,
			Attributes:  r.Attributes,
			MainImage:   r.MainImage,
			Gallery:     r.Gallery,
		},
	}
}

// UpdateListingRequest - частичная правка, отсутствующие поля не меняются.
type UpdateListingRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Price       *float64          `json:"price"`
	Currency    *string           `json:"currency"`
	Location    *entity.Location  `json:"location"`
	Contacts    *entity.Contacts  `json:"contacts"`
	PlanType    *string           `json:"plan_type"`
	Attributes  map[string]string `json:"attributes"`
	MainImage   *string           `json:"main_image"`
	Gallery     []string          `json:"gallery"`
	Version     int64             `json:"version"`
}

func (r UpdateListingRequest) ToInput() listing.UpdateListingInput {
	return listing.UpdateListingInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		Location:    r.Location,
		Contacts:    r.Contacts,
		PlanType:    r.PlanType,
		Attributes:  r.Attributes,
		MainImage:   r.MainImage,
		Gallery:     r.Gallery,
		Version:     r.Version,
	}
}

type RejectListingRequest struct {
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type StatusResponse struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Version int64  `json:"version"`
}

func ToStatusResponse(l *entity.Listing) StatusResponse {
	return StatusResponse{ID: l.ID, Status: string(l.Status), Version: l.Version}
}

type ListingResponse struct {
	ID              int64                `json:"id"`
	Category        string               `json:"category"`
	CategoryName    string               `json:"category_name"`
	Status          string               `json:"status"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Price           float64              `json:"price"`
	Currency        string               `json:"currency"`
	Location        entity.Location      `json:"location"`
	Contacts        entity.Contacts      `json:"contacts"`
	PlanType        string               `json:"plan_type"`
	Attributes      map[string]string    `json:"attributes"`
	MainImage       string               `json:"main_image,omitempty"`
	Gallery         []string             `json:"gallery"`
	OwnerID         *uuid.UUID           `json:"owner_id,omitempty"`
	Owner           entity.OwnerSnapshot `json:"owner"`
	AdminComment    string               `json:"admin_comment,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time            `json:"submitted_at"`
	PublishedAt     *time.Time           `json:"published_at,omitempty"`
	ExpiresAt       *time.Time           `json:"expires_at,omitempty"`
	Expired         bool                 `json:"expired"`
	Views           int64                `json:"views"`
	Rank            int                  `json:"rank"`
	Version         int64                `json:"version,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ToListingResponse - полное представление для владельца и администратора.
func ToListingResponse(l *entity.Listing) ListingResponse {
	resp := ToPublicListingResponse(l)
	ownerID := l.OwnerID
	resp.OwnerID = &ownerID
	resp.AdminComment = l.AdminComment
	resp.RejectionReason = l.RejectionReason
	resp.Version = l.Version
	return resp
}

// ToPublicListingResponse скрывает служебные поля модерации.
func ToPublicListingResponse(l *entity.Listing) ListingResponse {
	gallery := l.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	attrs := l.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return ListingResponse{
		ID:           l.ID,
		Category:     string(l.Category),
		CategoryName: l.CategoryName,
		Status:       string(l.Status),
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price.Amount,
		Currency:     l.Price.Currency,
		Location:     l.Location,
		Contacts:     l.Contacts,
		PlanType:     string(l.PlanType),
		Attributes:   attrs,
		MainImage:    l.MainImage,
		Gallery:      gallery,
		Owner:        l.Owner,
		SubmittedAt:  l.SubmittedAt,
		PublishedAt:  l.PublishedAt,
		ExpiresAt:    l.ExpiresAt,
		Expired:      l.Expired,
		Views:        l.Views,
		Rank:         l.Rank,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func ToListingResponses(listings []*entity.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, ToListingResponse(l))
	}
	return out
}

func ToPublicListingResponses(listings []*entity.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, ToPublicListingResponse(l))
	}
	return out
}

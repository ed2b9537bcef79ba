package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

type Type string

const (
	ListingSubmitted       Type = "listing.submitted"
	ListingUpdated         Type = "listing.updated"
	ListingApproved        Type = "listing.approved"
	ListingRejected        Type = "listing.rejected"
	ListingReopened        Type = "listing.reopened"
	ListingExpired         Type = "listing.expired"
	ReportFiled            Type = "report.filed"
	ReportAccepted         Type = "report.accepted"
	ReportDismissed        Type = "report.dismissed"
	ReportThresholdReached Type = "report.threshold_reached"
)

// Event - уведомление о зафиксированном изменении, уходит внешним получателям после коммита.
type Event struct {
	Type         Type      `json:"type"`
	ListingID    int64     `json:"listing_id"`
	ReportID     int64     `json:"report_id,omitempty"`
	OwnerID      uuid.UUID `json:"owner_id,omitempty"`
	Title        string    `json:"title,omitempty"`
	Status       string    `json:"status"`
	From         string    `json:"from,omitempty"`
	ActorID      uuid.UUID `json:"actor_id"`
	ActorRole    string    `json:"actor_role"`
	Reason       string    `json:"reason,omitempty"`
	ReportsCount int       `json:"reports_count,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher доставляет события. Ошибки доставки не влияют на результат запроса.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Nop - публикатор по умолчанию.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// FromListing собирает событие по объявлению и записи перехода.
func FromListing(t Type, l *entity.Listing, tr *entity.Transition) Event {
	evt := Event{
		Type:      t,
		ListingID: l.ID,
		OwnerID:   l.OwnerID,
		Title:     l.Title,
		Status:    string(l.Status),
		At:        l.UpdatedAt,
	}
	if tr != nil {
		evt.From = tr.From
		evt.ActorID = tr.ActorID
		evt.ActorRole = string(tr.ActorRole)
		evt.Reason = tr.Reason
		evt.At = tr.At
	}
	return evt
}

// FromReport собирает событие по агрегату жалоб.
func FromReport(t Type, r *entity.Report, tr *entity.Transition) Event {
	evt := Event{
		Type:         t,
		ListingID:    r.ListingID,
		ReportID:     r.ID,
		Title:        r.Listing.Title,
		Status:       string(r.Status),
		Reason:       r.RejectionReason(),
		ReportsCount: r.ReportsCount,
		At:           r.UpdatedAt,
	}
	if tr != nil {
		evt.From = tr.From
		evt.ActorID = tr.ActorID
		evt.ActorRole = string(tr.ActorRole)
		evt.At = tr.At
	}
	return evt
}

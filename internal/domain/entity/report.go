package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

const (
	maxReasonLength = 255

	reportEventAccept  = "accept"
	reportEventDismiss = "dismiss"
)

// ListingSnapshot - копия данных объявления на момент жалобы, история переживает правки.
type ListingSnapshot struct {
	Title        string
	Category     valueobject.CategorySlug
	CategoryName string
}

// Report - агрегат жалоб на одно объявление в пределах одного открытого окна.
// Окно открыто, пока агрегат не принят или не отклонён.
type Report struct {
	ID             int64
	ListingID      int64
	Listing        ListingSnapshot
	ReportsCount   int
	Reasons        []string
	ReporterIDs    []uuid.UUID
	Status         valueobject.ReportStatus
	ResolvedBy     *uuid.UUID
	ResolvedAt     *time.Time
	ResolutionNote string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeReason обрезает пробелы и проверяет длину причины.
func NormalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", apperror.Validation("reason", "причина жалобы обязательна")
	}
	if len([]rune(reason)) > maxReasonLength {
		return "", apperror.Validation("reason", "причина жалобы слишком длинная")
	}
	return reason, nil
}

func NewReport(listing *Listing, reason string, reporterID uuid.UUID, now time.Time) (*Report, error) {
	reason, err := NormalizeReason(reason)
	if err != nil {
		return nil, err
	}
	if reporterID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return &Report{
		ListingID:    listing.ID,
		Listing:      listing.Snapshot(),
		ReportsCount: 1,
		Reasons:      []string{reason},
		ReporterIDs:  []uuid.UUID{reporterID},
		Status:       valueobject.ReportStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AddComplaint увеличивает счётчик и добавляет причину в множество без дублей.
func (r *Report) AddComplaint(reason string, reporterID uuid.UUID, now time.Time) error {
	if r.Status != valueobject.ReportStatusOpen {
		return apperror.InvalidTransition(string(r.Status), "file")
	}
	reason, err := NormalizeReason(reason)
	if err != nil {
		return err
	}
	r.ReportsCount++
	if !r.HasReason(reason) {
		r.Reasons = append(r.Reasons, reason)
	}
	if !r.hasReporter(reporterID) {
		r.ReporterIDs = append(r.ReporterIDs, reporterID)
	}
	r.UpdatedAt = now
	return nil
}

func (r *Report) HasReason(reason string) bool {
	for _, existing := range r.Reasons {
		if existing == reason {
			return true
		}
	}
	return false
}

func (r *Report) hasReporter(id uuid.UUID) bool {
	for _, existing := range r.ReporterIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// RejectionReason - агрегированные причины в виде причины отказа объявлению.
func (r *Report) RejectionReason() string {
	return strings.Join(r.Reasons, "; ")
}

func (r *Report) Accept(actor valueobject.Actor, note string, now time.Time) (*Transition, error) {
	return r.resolve(actor, valueobject.ReportStatusAccepted, reportEventAccept, note, now)
}

func (r *Report) Dismiss(actor valueobject.Actor, note string, now time.Time) (*Transition, error) {
	return r.resolve(actor, valueobject.ReportStatusDismissed, reportEventDismiss, note, now)
}

func (r *Report) resolve(actor valueobject.Actor, to valueobject.ReportStatus, event, note string, now time.Time) (*Transition, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if r.Status != valueobject.ReportStatusOpen {
		return nil, apperror.InvalidTransition(string(r.Status), event)
	}
	tr := newTransition(SubjectReport, r.ID, string(r.Status), string(to), event, actor, strings.TrimSpace(note), now)
	resolver := actor.UserID
	resolvedAt := now
	r.Status = to
	r.ResolvedBy = &resolver
	r.ResolvedAt = &resolvedAt
	r.ResolutionNote = strings.TrimSpace(note)
	r.UpdatedAt = now
	return tr, nil
}

func (r *Report) Clone() *Report {
	c := *r
	c.Reasons = append([]string(nil), r.Reasons...)
	c.ReporterIDs = append([]uuid.UUID(nil), r.ReporterIDs...)
	if r.ResolvedBy != nil {
		v := *r.ResolvedBy
		c.ResolvedBy = &v
	}
	if r.ResolvedAt != nil {
		v := *r.ResolvedAt
		c.ResolvedAt = &v
	}
	return &c
}

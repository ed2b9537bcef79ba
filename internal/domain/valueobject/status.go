package valueobject

import "github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"

type ListingStatus string

const (
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusRejected  ListingStatus = "rejected"
)

// ListingStatuses перечисляет все статусы в стабильном порядке.
var ListingStatuses = []ListingStatus{ListingStatusPending, ListingStatusPublished, ListingStatusRejected}

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusPending, ListingStatusPublished, ListingStatusRejected:
		return true
	}
	return false
}

func (s ListingStatus) String() string {
	return string(s)
}

func ParseListingStatus(status string) (ListingStatus, error) {
	s := ListingStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("status", "некорректный статус объявления")
	}
	return s, nil
}

type ModerationEvent string

const (
	EventApprove        ModerationEvent = "approve"
	EventReject         ModerationEvent = "reject"
	EventReopen         ModerationEvent = "reopen"
	EventExpire         ModerationEvent = "expire"
	EventReportAccepted ModerationEvent = "report_accepted"
	// EventEdit не меняет статус, но подчиняется тем же правилам допустимости.
	EventEdit ModerationEvent = "edit"
	// EventSubmit пишется только в аудит при создании объявления.
	EventSubmit ModerationEvent = "submit"
)

var ModerationEvents = []ModerationEvent{EventApprove, EventReject, EventReopen, EventExpire, EventReportAccepted}

type transitionKey struct {
	from  ListingStatus
	event ModerationEvent
}

// listingTransitions - единственный источник правды для машины состояний модерации.
var listingTransitions = map[transitionKey]ListingStatus{
	{ListingStatusPending, EventApprove}:          ListingStatusPublished,
	{ListingStatusPending, EventReject}:           ListingStatusRejected,
	{ListingStatusRejected, EventReopen}:          ListingStatusPending,
	{ListingStatusPublished, EventExpire}:         ListingStatusPublished,
	{ListingStatusPublished, EventReportAccepted}: ListingStatusRejected,
}

// Next возвращает целевой статус для события или InvalidTransition.
func (s ListingStatus) Next(event ModerationEvent) (ListingStatus, error) {
	to, ok := listingTransitions[transitionKey{from: s, event: event}]
	if !ok {
		return "", apperror.InvalidTransition(string(s), string(event))
	}
	return to, nil
}

func (s ListingStatus) CanTransition(event ModerationEvent) bool {
	_, err := s.Next(event)
	return err == nil
}

// IsEditableByOwner: владелец правит объявление только до публикации или после отказа.
func (s ListingStatus) IsEditableByOwner() bool {
	return s == ListingStatusPending || s == ListingStatusRejected
}

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusAccepted  ReportStatus = "accepted"
	ReportStatusDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusOpen, ReportStatusAccepted, ReportStatusDismissed:
		return true
	}
	return false
}

func (s ReportStatus) IsResolved() bool {
	return s == ReportStatusAccepted || s == ReportStatusDismissed
}

func ParseReportStatus(status string) (ReportStatus, error) {
	s := ReportStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("status", "некорректный статус жалобы")
	}
	return s, nil
}

type PlanType string

const (
	PlanFree     PlanType = "free"
	PlanFeatured PlanType = "featured"
	PlanPremium  PlanType = "premium"
)

func ParsePlanType(plan string) (PlanType, error) {
	switch p := PlanType(plan); p {
	case "":
		return PlanFree, nil
	case PlanFree, PlanFeatured, PlanPremium:
		return p, nil
	}
	return "", apperror.Validation("plan_type", "некорректный тариф")
}

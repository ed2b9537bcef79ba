package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

type FileReportRequest struct {
	Reason string `json:"reason"`
}

type ResolveReportRequest struct {
	Note string `json:"note"`
}

type FiledReportResponse struct {
	ID           int64 `json:"id"`
	ReportsCount int   `json:"reports_count"`
}

type ResolvedReportResponse struct {
	Message       string `json:"message"`
	Status        string `json:"status"`
	ListingStatus string `json:"listing_status,omitempty"`
}

type ReportListingDTO struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	CategoryName string `json:"category_name"`
}

type ReportResponse struct {
	ID             int64            `json:"id"`
	ListingID      int64            `json:"listing_id"`
	Listing        ReportListingDTO `json:"listing"`
	ReportsCount   int              `json:"reports_count"`
	Reasons        []string         `json:"reasons"`
	ReporterIDs    []uuid.UUID      `json:"reporter_ids"`
	Status         string           `json:"status"`
	ResolvedBy     *uuid.UUID       `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
	ResolutionNote string           `json:"resolution_note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func ToReportResponse(r *entity.Report) ReportResponse {
	reasons := r.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	reporters := r.ReporterIDs
	if reporters == nil {
		reporters = []uuid.UUID{}
	}
	return ReportResponse{
		ID:        r.ID,
		ListingID: r.ListingID,
		Listing: ReportListingDTO{
			Title:        r.Listing.Title,
			Category:     string(r.Listing.Category),
			CategoryName: r.Listing.CategoryName,
		},
		ReportsCount:   r.ReportsCount,
		Reasons:        reasons,
		ReporterIDs:    reporters,
		Status:         string(r.Status),
		ResolvedBy:     r.ResolvedBy,
		ResolvedAt:     r.ResolvedAt,
		ResolutionNote: r.ResolutionNote,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ToReportResponses(reports []*entity.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, ToReportResponse(r))
	}
	return out
}

type TransitionResponse struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	SubjectID int64     `json:"subject_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Event     string    `json:"event"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

func ToTransitionResponses(trs []*entity.Transition) []TransitionResponse {
	out := make([]TransitionResponse, 0, len(trs))
	for _, tr := range trs {
		out = append(out, TransitionResponse{
			ID:        tr.ID,
			Subject:   string(tr.Subject),
			SubjectID: tr.SubjectID,
			From:      tr.From,
			To:        tr.To,
			Event:     tr.Event,
			ActorID:   tr.ActorID,
			ActorRole: string(tr.ActorRole),
			Reason:    tr.Reason,
			At:        tr.At,
		})
	}
	return out
}

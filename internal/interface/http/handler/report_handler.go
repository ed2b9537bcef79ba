package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/dto"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/report"
)

type ReportHandler struct {
	fileUC    *report.FileReportUseCase
	listUC    *report.ListReportsUseCase
	getUC     *report.GetReportUseCase
	acceptUC  *report.AcceptReportUseCase
	dismissUC *report.DismissReportUseCase
	paging    Paging
}

func NewReportHandler(
	fileUC *report.FileReportUseCase,
	listUC *report.ListReportsUseCase,
	getUC *report.GetReportUseCase,
	acceptUC *report.AcceptReportUseCase,
	dismissUC *report.DismissReportUseCase,
	paging Paging,
) *ReportHandler {
	return &ReportHandler{
		fileUC:    fileUC,
		listUC:    listUC,
		getUC:     getUC,
		acceptUC:  acceptUC,
		dismissUC: dismissUC,
		paging:    paging,
	}
}

// File обрабатывает POST /api/listings/:id/reports.
func (h *ReportHandler) File(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listingID, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.FileReportRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	rep, err := h.fileUC.Execute(c.Request.Context(), actor, listingID, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, dto.FiledReportResponse{ID: rep.ID, ReportsCount: rep.ReportsCount})
}

// List обрабатывает GET /api/admin/reports?status=open.
func (h *ReportHandler) List(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var filter repository.ReportFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := valueobject.ParseReportStatus(raw)
		if err != nil {
			_ = c.Error(err)
			return
		}
		filter.Status = status
	}
	if raw := c.Query("listing_id"); raw != "" {
		filter.ListingID = int64(parseIntQuery(c, "listing_id", 0))
	}

	items, page, err := h.listUC.Execute(c.Request.Context(), actor, filter, h.paging.request(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Paginated(c, page, dto.ToReportResponses(items))
}

// Get обрабатывает GET /api/admin/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	rep, err := h.getUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToReportResponse(rep))
}

// History обрабатывает GET /api/admin/reports/:id/history.
func (h *ReportHandler) History(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	trs, err := h.getUC.History(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, gin.H{"history": dto.ToTransitionResponses(trs)})
}

// Accept обрабатывает PATCH /api/admin/reports/:id/accept.
func (h *ReportHandler) Accept(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.ResolveReportRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	rep, l, err := h.acceptUC.Execute(c.Request.Context(), actor, id, req.Note)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp := dto.ResolvedReportResponse{
		Message: "жалоба принята",
		Status:  string(rep.Status),
	}
	if l != nil {
		resp.ListingStatus = string(l.Status)
	}
	response.Success(c, resp)
}

// Dismiss обрабатывает PATCH /api/admin/reports/:id/dismiss.
func (h *ReportHandler) Dismiss(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.ResolveReportRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	rep, err := h.dismissUC.Execute(c.Request.Context(), actor, id, req.Note)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ResolvedReportResponse{
		Message: "жалоба отклонена",
		Status:  string(rep.Status),
	})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/dto"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/listing"
)

// ModerationHandler - очередь модерации и решения администратора по объявлениям.
type ModerationHandler struct {
	listUC    *listing.ListListingsUseCase
	getUC     *listing.GetListingUseCase
	historyUC *listing.ListingHistoryUseCase
	approveUC *listing.ApproveListingUseCase
	rejectUC  *listing.RejectListingUseCase
	reopenUC  *listing.ReopenListingUseCase
	expireUC  *listing.ExpireListingUseCase
	paging    Paging
}

func NewModerationHandler(
	listUC *listing.ListListingsUseCase,
	getUC *listing.GetListingUseCase,
	historyUC *listing.ListingHistoryUseCase,
	approveUC *listing.ApproveListingUseCase,
	rejectUC *listing.RejectListingUseCase,
	reopenUC *listing.ReopenListingUseCase,
	expireUC *listing.ExpireListingUseCase,
	paging Paging,
) *ModerationHandler {
	return &ModerationHandler{
		listUC:    listUC,
		getUC:     getUC,
		historyUC: historyUC,
		approveUC: approveUC,
		rejectUC:  rejectUC,
		reopenUC:  reopenUC,
		expireUC:  expireUC,
		paging:    paging,
	}
}

// List обрабатывает GET /api/admin/listings?status=pending.
func (h *ModerationHandler) List(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter, err := listingFilter(c, true)
	if err != nil {
		_ = c.Error(err)
		return
	}

	items, page, err := h.listUC.ByStatus(c.Request.Context(), actor, filter, h.paging.request(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Listings(c, page, dto.ToListingResponses(items))
}

// Get обрабатывает GET /api/admin/listings/:id.
func (h *ModerationHandler) Get(c *gin.Context) {
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

	l, err := h.getUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToListingResponse(l))
}

// History обрабатывает GET /api/admin/listings/:id/history.
func (h *ModerationHandler) History(c *gin.Context) {
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

	trs, err := h.historyUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, gin.H{"history": dto.ToTransitionResponses(trs)})
}

// Approve обрабатывает PATCH /api/admin/listings/:id/approve.
func (h *ModerationHandler) Approve(c *gin.Context) {
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

	l, err := h.approveUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToStatusResponse(l))
}

// Reject обрабатывает PATCH /api/admin/listings/:id/reject.
func (h *ModerationHandler) Reject(c *gin.Context) {
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

	var req dto.RejectListingRequest
	if err := bindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.rejectUC.Execute(c.Request.Context(), actor, id, listing.RejectListingInput{
		Reason:  req.Reason,
		Comment: req.Comment,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToStatusResponse(l))
}

// Reopen обрабатывает PATCH /api/admin/listings/:id/reopen.
func (h *ModerationHandler) Reopen(c *gin.Context) {
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

	l, err := h.reopenUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToStatusResponse(l))
}

// Expire обрабатывает PATCH /api/admin/listings/:id/expire: ручное снятие с выдачи после срока.
func (h *ModerationHandler) Expire(c *gin.Context) {
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

	l, err := h.expireUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToStatusResponse(l))
}

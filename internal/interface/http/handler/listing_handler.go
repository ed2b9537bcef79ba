package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/dto"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/listing"
)

// ListingHandler - публичная выдача и действия владельца.
type ListingHandler struct {
	submitUC *listing.SubmitListingUseCase
	updateUC *listing.UpdateListingUseCase
	reopenUC *listing.ReopenListingUseCase
	getUC    *listing.GetListingUseCase
	listUC   *listing.ListListingsUseCase
	paging   Paging
}

func NewListingHandler(
	submitUC *listing.SubmitListingUseCase,
	updateUC *listing.UpdateListingUseCase,
	reopenUC *listing.ReopenListingUseCase,
	getUC *listing.GetListingUseCase,
	listUC *listing.ListListingsUseCase,
	paging Paging,
) *ListingHandler {
	return &ListingHandler{
		submitUC: submitUC,
		updateUC: updateUC,
		reopenUC: reopenUC,
		getUC:    getUC,
		listUC:   listUC,
		paging:   paging,
	}
}

// ListPublic обрабатывает GET /api/listings.
func (h *ListingHandler) ListPublic(c *gin.Context) {
	filter, err := listingFilter(c, false)
	if err != nil {
		_ = c.Error(err)
		return
	}

	items, page, err := h.listUC.Public(c.Request.Context(), filter, h.paging.request(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Listings(c, page, dto.ToPublicListingResponses(items))
}

// GetPublic обрабатывает GET /api/listings/:id.
func (h *ListingHandler) GetPublic(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.getUC.Public(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToPublicListingResponse(l))
}

// Submit обрабатывает POST /api/listings.
func (h *ListingHandler) Submit(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.SubmitListingRequest
	if err := bindJSON(c, &req, false); err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.submitUC.Execute(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, dto.CreatedResponse{ID: l.ID})
}

// Update обрабатывает PATCH /api/listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
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

	var req dto.UpdateListingRequest
	if err := bindJSON(c, &req, false); err != nil {
		_ = c.Error(err)
		return
	}

	l, err := h.updateUC.Execute(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, dto.ToListingResponse(l))
}

// Reopen обрабатывает PATCH /api/listings/:id/reopen.
func (h *ListingHandler) Reopen(c *gin.Context) {
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

// ListMine обрабатывает GET /api/my/listings.
func (h *ListingHandler) ListMine(c *gin.Context) {
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

	items, page, err := h.listUC.ByOwner(c.Request.Context(), actor, filter, h.paging.request(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Listings(c, page, dto.ToListingResponses(items))
}

// GetMine обрабатывает GET /api/my/listings/:id.
func (h *ListingHandler) GetMine(c *gin.Context) {
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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classlib-backend/internal/domains/circulation/model"
	"classlib-backend/internal/domains/circulation/service"
	itemHandler "classlib-backend/internal/domains/item/handler"
	"classlib-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates a new circulation handler
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
	}
}

// CheckOut handles POST /api/v1/items/:id/checkout
func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := itemHandler.ParseItemID(c)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.CheckOut(c.Request.Context(), id, req); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c)
}

// Return handles POST /api/v1/items/:id/return
func (h *Handler) Return(c *gin.Context) {
	id, ok := itemHandler.ParseItemID(c)
	if !ok {
		return
	}

	if _, err := h.service.Return(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c)
}

// ItemHistory handles GET /api/v1/items/:id/history
func (h *Handler) ItemHistory(c *gin.Context) {
	id, ok := itemHandler.ParseItemID(c)
	if !ok {
		return
	}

	entries, err := h.service.ItemHistory(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, entries, &response.Meta{Total: len(entries)})
}

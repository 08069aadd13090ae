package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classlib-backend/internal/domains/borrower/service"
	"classlib-backend/internal/shared/response"
)

type Handler struct {
	roster service.RosterService
}

// NewHandler creates a new borrower handler
func NewHandler(roster service.RosterService) *Handler {
	return &Handler{
		roster: roster,
	}
}

// GetRoster handles GET /api/v1/borrowers
// Every borrower with held items and past loans.
func (h *Handler) GetRoster(c *gin.Context) {
	roster, err := h.roster.Get(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, roster, &response.Meta{Total: len(roster)})
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/sfa/backend/internal/application/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// DepotHandler handles depot API endpoints
type DepotHandler struct {
	BaseHandler
	depotService *partnerapp.DepotService
}

// NewDepotHandler creates a new DepotHandler
func NewDepotHandler(depotService *partnerapp.DepotService) *DepotHandler {
	return &DepotHandler{depotService: depotService}
}

// Create handles POST /partner/depots
func (h *DepotHandler) Create(c *gin.Context) {
	var req partnerapp.CreateDepotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.depotService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /partner/depots
func (h *DepotHandler) List(c *gin.Context) {
	listReq, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Filters:  make(map[string]interface{}),
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	depots, total, err := h.depotService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, depots, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /partner/depots/:id
func (h *DepotHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	resp, err := h.depotService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /partner/depots/:id
func (h *DepotHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	var req partnerapp.UpdateDepotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.depotService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Enable handles POST /partner/depots/:id/enable
func (h *DepotHandler) Enable(c *gin.Context) {
	h.statusChange(c, h.depotService.Enable)
}

// Disable handles POST /partner/depots/:id/disable
func (h *DepotHandler) Disable(c *gin.Context) {
	h.statusChange(c, h.depotService.Disable)
}

// Delete handles DELETE /partner/depots/:id
func (h *DepotHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	if err := h.depotService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *DepotHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID) error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

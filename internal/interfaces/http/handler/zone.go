package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/sfa/backend/internal/application/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// ZoneHandler handles zone API endpoints
type ZoneHandler struct {
	BaseHandler
	zoneService *partnerapp.ZoneService
}

// NewZoneHandler creates a new ZoneHandler
func NewZoneHandler(zoneService *partnerapp.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

// Create handles POST /partner/zones
func (h *ZoneHandler) Create(c *gin.Context) {
	var req partnerapp.CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.zoneService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /partner/zones
func (h *ZoneHandler) List(c *gin.Context) {
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
	depotID, err := parseUUIDQuery(c, "depot_id")
	if err != nil {
		h.BadRequest(c, "Invalid depot_id")
		return
	}
	if depotID != nil {
		filter.Filters["depot_id"] = *depotID
	}

	zones, total, err := h.zoneService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, zones, total, filter.Page, filter.PageSize)
}

// ListByDepot handles GET /partner/depots/:id/zones
func (h *ZoneHandler) ListByDepot(c *gin.Context) {
	depotID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

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
	}

	zones, err := h.zoneService.ListByDepot(c.Request.Context(), depotID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, zones)
}

// GetByID handles GET /partner/zones/:id
func (h *ZoneHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	resp, err := h.zoneService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /partner/zones/:id
func (h *ZoneHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	var req partnerapp.UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.zoneService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate handles POST /partner/zones/:id/activate
func (h *ZoneHandler) Activate(c *gin.Context) {
	h.statusChange(c, h.zoneService.Activate)
}

// Deactivate handles POST /partner/zones/:id/deactivate
func (h *ZoneHandler) Deactivate(c *gin.Context) {
	h.statusChange(c, h.zoneService.Deactivate)
}

// Delete handles DELETE /partner/zones/:id
func (h *ZoneHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	if err := h.zoneService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ZoneHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID) error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

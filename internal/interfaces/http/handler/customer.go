package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/sfa/backend/internal/application/partner"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles POST /partner/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /partner/customers
func (h *CustomerHandler) List(c *gin.Context) {
	listReq, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	depotID, err := parseUUIDQuery(c, "depot_id")
	if err != nil {
		h.BadRequest(c, "Invalid depot_id")
		return
	}
	zoneID, err := parseUUIDQuery(c, "zone_id")
	if err != nil {
		h.BadRequest(c, "Invalid zone_id")
		return
	}
	salespersonID, err := parseUUIDQuery(c, "salesperson_id")
	if err != nil {
		h.BadRequest(c, "Invalid salesperson_id")
		return
	}

	filter := partnerapp.CustomerListFilter{
		Page:          listReq.Page,
		PageSize:      listReq.PageSize,
		OrderBy:       listReq.OrderBy,
		OrderDir:      listReq.OrderDir,
		Search:        listReq.Search,
		Status:        stringQuery(c, "status"),
		Channel:       stringQuery(c, "channel"),
		DepotID:       depotID,
		ZoneID:        zoneID,
		SalespersonID: salespersonID,
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /partner/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode handles GET /partner/customers/code/:code
func (h *CustomerHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Customer code is required")
		return
	}

	resp, err := h.customerService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CountByStatus handles GET /partner/customers/stats/count
func (h *CustomerHandler) CountByStatus(c *gin.Context) {
	counts, err := h.customerService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Update handles PUT /partner/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate handles POST /partner/customers/:id/activate
func (h *CustomerHandler) Activate(c *gin.Context) {
	h.statusChange(c, h.customerService.Activate)
}

// Deactivate handles POST /partner/customers/:id/deactivate
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	h.statusChange(c, h.customerService.Deactivate)
}

// Suspend handles POST /partner/customers/:id/suspend
func (h *CustomerHandler) Suspend(c *gin.Context) {
	h.statusChange(c, h.customerService.Suspend)
}

// Delete handles DELETE /partner/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CustomerHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID) error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/sfa/backend/internal/application/inventory"
)

// InventoryHandler handles stock level, movement, batch and serial endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Receive handles POST /inventory/receipts
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req inventoryapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.inventoryService.Receive(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"received": true})
}

// ListStock handles GET /inventory/stock
func (h *InventoryHandler) ListStock(c *gin.Context) {
	listReq, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := parseUUIDQuery(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	depotID, err := parseUUIDQuery(c, "depot_id")
	if err != nil {
		h.BadRequest(c, "Invalid depot_id")
		return
	}

	filter := inventoryapp.StockListFilter{
		Page:      listReq.Page,
		PageSize:  listReq.PageSize,
		OrderBy:   listReq.OrderBy,
		OrderDir:  listReq.OrderDir,
		ProductID: productID,
		DepotID:   depotID,
	}

	items, total, err := h.inventoryService.ListStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListMovements handles GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	listReq, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := parseUUIDQuery(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	depotID, err := parseUUIDQuery(c, "depot_id")
	if err != nil {
		h.BadRequest(c, "Invalid depot_id")
		return
	}

	filter := inventoryapp.MovementListFilter{
		Page:         listReq.Page,
		PageSize:     listReq.PageSize,
		OrderBy:      listReq.OrderBy,
		OrderDir:     listReq.OrderDir,
		ProductID:    productID,
		DepotID:      depotID,
		MovementType: stringQuery(c, "movement_type"),
	}

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListBatchLots handles GET /inventory/batches
func (h *InventoryHandler) ListBatchLots(c *gin.Context) {
	productID, depotID, ok := h.lookupParams(c)
	if !ok {
		return
	}

	lots, err := h.inventoryService.ListBatchLots(c.Request.Context(), productID, depotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// ListAvailableSerials handles GET /inventory/serials
func (h *InventoryHandler) ListAvailableSerials(c *gin.Context) {
	productID, depotID, ok := h.lookupParams(c)
	if !ok {
		return
	}

	serials, err := h.inventoryService.ListAvailableSerials(c.Request.Context(), productID, depotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, serials)
}

// lookupParams reads the required product_id and depot_id query parameters
func (h *InventoryHandler) lookupParams(c *gin.Context) (productID, depotID uuid.UUID, ok bool) {
	pid, err := parseUUIDQuery(c, "product_id")
	if err != nil || pid == nil {
		h.BadRequest(c, "product_id is required")
		return
	}
	did, err := parseUUIDQuery(c, "depot_id")
	if err != nil || did == nil {
		h.BadRequest(c, "depot_id is required")
		return
	}
	return *pid, *did, true
}

package handler

import (
	"github.com/gin-gonic/gin"

	workflowapp "github.com/sfa/backend/internal/application/workflow"
	"github.com/sfa/backend/internal/domain/shared"
)

// WorkflowHandler handles notification and approval queue API endpoints
type WorkflowHandler struct {
	BaseHandler
	workflowService *workflowapp.WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(workflowService *workflowapp.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// ListNotifications handles GET /workflow/notifications. The recipient is
// the caller identified by the X-Actor-ID header.
func (h *WorkflowHandler) ListNotifications(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.HandleError(c, err)
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
		Filters:  make(map[string]interface{}),
	}
	if c.Query("unread") == "true" {
		filter.Filters["unread"] = true
	}

	notifications, err := h.workflowService.ListNotifications(c.Request.Context(), actorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notifications)
}

// CountUnread handles GET /workflow/notifications/unread-count
func (h *WorkflowHandler) CountUnread(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	count, err := h.workflowService.CountUnreadNotifications(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread": count})
}

// MarkRead handles POST /workflow/notifications/:id/read
func (h *WorkflowHandler) MarkRead(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	resp, err := h.workflowService.MarkNotificationRead(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListApprovals handles GET /workflow/approvals
func (h *WorkflowHandler) ListApprovals(c *gin.Context) {
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
		Filters:  make(map[string]interface{}),
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if docType := c.Query("document_type"); docType != "" {
		filter.Filters["document_type"] = docType
	}
	requestedBy, err := parseUUIDQuery(c, "requested_by")
	if err != nil {
		h.BadRequest(c, "Invalid requested_by")
		return
	}
	if requestedBy != nil {
		filter.Filters["requested_by"] = *requestedBy
	}

	approvals, total, err := h.workflowService.ListApprovalRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, approvals, total, filter.Page, filter.PageSize)
}

// GetApproval handles GET /workflow/approvals/:id
func (h *WorkflowHandler) GetApproval(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid approval request ID")
		return
	}

	resp, err := h.workflowService.GetApprovalRequest(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

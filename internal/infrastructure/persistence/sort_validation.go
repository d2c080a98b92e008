package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"channel":     true,
	"status":      true,
	"phone":       true,
	"depot_id":    true,
	"category_id": true,
	"type_id":     true,
}

// DepotSortFields contains allowed sort fields for depots
var DepotSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"address":    true,
}

// ZoneSortFields contains allowed sort fields for zones
var ZoneSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"depot_id":   true,
	"status":     true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"code":              true,
	"name":              true,
	"category_id":       true,
	"status":            true,
	"selling_price":     true,
	"cost_price":        true,
	"barcode":           true,
	"tracking_strategy": true,
	"base_unit":         true,
}

// PromotionSortFields contains allowed sort fields for promotions
var PromotionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"start_date": true,
	"end_date":   true,
	"active":     true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"product_id":         true,
	"depot_id":           true,
	"current_quantity":   true,
	"available_quantity": true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"occurred_at":    true,
	"movement_type":  true,
	"product_id":     true,
	"depot_id":       true,
	"quantity":       true,
	"reference_type": true,
	"reference_id":   true,
}

// BatchLotSortFields contains allowed sort fields for batch lots
var BatchLotSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"batch_number":       true,
	"product_id":         true,
	"depot_id":           true,
	"expiry_date":        true,
	"received_quantity":  true,
	"remaining_quantity": true,
}

// SerialNumberSortFields contains allowed sort fields for serial numbers
var SerialNumberSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"serial":     true,
	"product_id": true,
	"depot_id":   true,
	"status":     true,
	"sold_at":    true,
}

// OrderSortFields contains allowed sort fields for sales orders
var OrderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"order_number":    true,
	"customer_id":     true,
	"depot_id":        true,
	"order_date":      true,
	"status":          true,
	"approval_status": true,
	"subtotal":        true,
	"discount_amount": true,
	"total_amount":    true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"recipient_id": true,
	"kind":         true,
	"read_at":      true,
}

// ApprovalRequestSortFields contains allowed sort fields for approval requests
var ApprovalRequestSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"document_type": true,
	"document_id":   true,
	"status":        true,
	"decided_at":    true,
}

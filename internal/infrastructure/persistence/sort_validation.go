package persistence

import (
	"strings"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"gorm.io/gorm"
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

// CreditSortFields contains allowed sort fields for credits
var CreditSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"number":            true,
	"remaining_balance": true,
}

// AlertSortFields contains allowed sort fields for collection alerts
var AlertSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"promise_date": true,
	"days_overdue": true,
	"total_amount": true,
}

// applyFilter applies ordering and paging. The id is always the last sort key
// so that pages are stable.
func applyFilter(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if field != "id" {
		query = query.Order("id ASC")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

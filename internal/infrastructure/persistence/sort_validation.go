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

// QuoteSortFields contains allowed sort fields for quotes
var QuoteSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"status":          true,
	"estimated_value": true,
	"responded_at":    true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"phone":      true,
}

// ContactSortFields contains allowed sort fields for contact messages
var ContactSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
	"name":       true,
}

// UserSortFields contains allowed sort fields for staff users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"email":         true,
	"role":          true,
	"last_login_at": true,
}

// ServiceSortFields contains allowed sort fields for services
var ServiceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"category":   true,
	"sort_order": true,
}

// TestimonialSortFields contains allowed sort fields for testimonials
var TestimonialSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"rating":     true,
}

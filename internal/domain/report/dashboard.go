// Package report holds the derived dashboard value objects. Nothing in
// this package is persisted; values are computed on demand from the
// sales, contact, and notification stores.
package report

import "github.com/pulsetronic/backend/internal/domain/sales"

// DashboardStats is a point-in-time snapshot of operational counters.
// Time windows are computed in the server's local calendar, truncated
// to midnight.
type DashboardStats struct {
	QuotesToday         int64   `json:"quotesToday"`
	QuotesWeek          int64   `json:"quotesWeek"`
	QuotesMonth         int64   `json:"quotesMonth"`
	PendingQuotes       int64   `json:"pendingQuotes"`
	ContactsToday       int64   `json:"contactsToday"`
	UnreadNotifications int64   `json:"unreadNotifications"`
	ConversionRate      float64 `json:"conversionRate"`
}

// DashboardCharts holds the data series for the admin dashboard charts.
// Both series omit zero buckets; clients backfill gaps themselves.
type DashboardCharts struct {
	StatusData   []sales.StatusCount `json:"statusData"`
	TimelineData []sales.DayCount    `json:"timelineData"`
}

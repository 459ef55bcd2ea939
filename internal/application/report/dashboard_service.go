// Package report computes the admin dashboard aggregates.
package report

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/contact"
	"github.com/pulsetronic/backend/internal/domain/notification"
	"github.com/pulsetronic/backend/internal/domain/report"
	"github.com/pulsetronic/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// DashboardService aggregates operational metrics for the admin dashboard
type DashboardService struct {
	quoteRepo        sales.QuoteRepository
	contactRepo      contact.Repository
	notificationRepo notification.Repository
	logger           *zap.Logger
	now              func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	quoteRepo sales.QuoteRepository,
	contactRepo contact.Repository,
	notificationRepo notification.Repository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		quoteRepo:        quoteRepo,
		contactRepo:      contactRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// GetStats computes the dashboard counters. The eight count queries run
// concurrently and the call waits for all of them; if any one fails the
// whole call fails rather than returning a half-populated snapshot.
// Time windows use the server's local calendar, truncated to midnight.
func (s *DashboardService) GetStats(ctx context.Context, userID uuid.UUID) (*report.DashboardStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, -1, 0)

	var (
		quotesToday, quotesWeek, quotesMonth int64
		pendingQuotes, contactsToday         int64
		unreadNotifications                  int64
		approvedQuotes, totalQuotes          int64
	)

	queries := []struct {
		name string
		dst  *int64
		run  func(context.Context) (int64, error)
	}{
		{"quotes_today", &quotesToday, func(ctx context.Context) (int64, error) {
			return s.quoteRepo.CountCreatedSince(ctx, today)
		}},
		{"quotes_week", &quotesWeek, func(ctx context.Context) (int64, error) {
			return s.quoteRepo.CountCreatedSince(ctx, weekAgo)
		}},
		{"quotes_month", &quotesMonth, func(ctx context.Context) (int64, error) {
			return s.quoteRepo.CountCreatedSince(ctx, monthAgo)
		}},
		{"pending_quotes", &pendingQuotes, func(ctx context.Context) (int64, error) {
			return s.quoteRepo.CountByStatus(ctx, sales.QuoteStatusNew, sales.QuoteStatusAnalyzing)
		}},
		{"contacts_today", &contactsToday, func(ctx context.Context) (int64, error) {
			return s.contactRepo.CountCreatedSince(ctx, today)
		}},
		{"unread_notifications", &unreadNotifications, func(ctx context.Context) (int64, error) {
			return s.notificationRepo.CountUnread(ctx, userID)
		}},
		{"approved_quotes", &approvedQuotes, func(ctx context.Context) (int64, error) {
			return s.quoteRepo.CountByStatus(ctx, sales.QuoteStatusApproved)
		}},
		{"total_quotes", &totalQuotes, func(ctx context.Context) (int64, error) {
			return s.quoteRepo.Count(ctx)
		}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(queries))
	for i, q := range queries {
		wg.Add(1)
		go func(i int, name string, dst *int64, run func(context.Context) (int64, error)) {
			defer wg.Done()
			n, err := run(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			*dst = n
		}(i, q.name, q.dst, q.run)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			s.logger.Error("dashboard stats query failed",
				zap.String("query", queries[i].name),
				zap.String("user_id", userID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	return &report.DashboardStats{
		QuotesToday:         quotesToday,
		QuotesWeek:          quotesWeek,
		QuotesMonth:         quotesMonth,
		PendingQuotes:       pendingQuotes,
		ContactsToday:       contactsToday,
		UnreadNotifications: unreadNotifications,
		ConversionRate:      conversionRate(approvedQuotes, totalQuotes),
	}, nil
}

// GetCharts returns the quote status breakdown and the trailing-7-day
// timeline. Both series omit zero buckets; the timeline is ordered by
// date ascending.
func (s *DashboardService) GetCharts(ctx context.Context) (*report.DashboardCharts, error) {
	statusData, err := s.quoteRepo.GroupByStatus(ctx)
	if err != nil {
		s.logger.Error("dashboard status chart query failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -6)

	timelineData, err := s.quoteRepo.GroupByDay(ctx, since)
	if err != nil {
		s.logger.Error("dashboard timeline chart query failed", zap.Error(err))
		return nil, err
	}

	return &report.DashboardCharts{
		StatusData:   statusData,
		TimelineData: timelineData,
	}, nil
}

// conversionRate is approved/total as a percentage with one decimal of
// precision, half-up. Zero when there are no quotes at all.
func conversionRate(approved, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(approved) / float64(total) * 100
	return math.Round(rate*10) / 10
}

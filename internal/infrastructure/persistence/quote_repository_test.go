package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/sales"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupQuoteTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&sales.Quote{})
	require.NoError(t, err)

	return db
}

func newTestQuote(t *testing.T, createdAt time.Time, status sales.QuoteStatus) *sales.Quote {
	t.Helper()
	q, err := sales.NewQuote(uuid.New(), nil, "Central multimídia", "Honda Civic", "Orçamento por favor")
	require.NoError(t, err)
	q.CreatedAt = createdAt
	q.Status = status
	return q
}

func TestGormQuoteRepository_FindAll(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	now := time.Now()
	customerID := uuid.New()

	first := newTestQuote(t, now.Add(-2*time.Hour), sales.QuoteStatusNew)
	first.CustomerID = customerID
	second := newTestQuote(t, now.Add(-1*time.Hour), sales.QuoteStatusApproved)
	third := newTestQuote(t, now, sales.QuoteStatusApproved)
	for _, q := range []*sales.Quote{first, second, third} {
		require.NoError(t, repo.Save(ctx, q))
	}

	t.Run("filters by status", func(t *testing.T) {
		filter := sales.QuoteFilter{Filter: shared.DefaultFilter(), Status: sales.QuoteStatusApproved}
		quotes, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(2), total)
		assert.Len(t, quotes, 2)
	})

	t.Run("filters by customer", func(t *testing.T) {
		filter := sales.QuoteFilter{Filter: shared.DefaultFilter(), CustomerID: customerID}
		quotes, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		require.Len(t, quotes, 1)
		assert.Equal(t, first.ID, quotes[0].ID)
	})

	t.Run("default ordering is newest first", func(t *testing.T) {
		quotes, total, err := repo.FindAll(ctx, sales.QuoteFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		require.Len(t, quotes, 3)
		assert.Equal(t, third.ID, quotes[0].ID)
		assert.Equal(t, first.ID, quotes[2].ID)
	})

	t.Run("pages results while keeping total", func(t *testing.T) {
		filter := sales.QuoteFilter{Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "created_at", OrderDir: "desc"}}
		quotes, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(3), total)
		assert.Len(t, quotes, 1)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		filter := sales.QuoteFilter{Filter: shared.Filter{OrderBy: "evil; DROP TABLE quotes", OrderDir: "asc"}}
		quotes, _, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, quotes, 3)
		assert.Equal(t, first.ID, quotes[0].ID)
	})
}

func TestGormQuoteRepository_Counts(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	now := time.Now()

	require.NoError(t, repo.Save(ctx, newTestQuote(t, now.Add(-30*24*time.Hour), sales.QuoteStatusCompleted)))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, now.Add(-3*24*time.Hour), sales.QuoteStatusAnalyzing)))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, now.Add(-1*time.Hour), sales.QuoteStatusNew)))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, now, sales.QuoteStatusApproved)))

	t.Run("total count", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("count created since", func(t *testing.T) {
		count, err := repo.CountCreatedSince(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("count by one status", func(t *testing.T) {
		count, err := repo.CountByStatus(ctx, sales.QuoteStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("count by several statuses", func(t *testing.T) {
		count, err := repo.CountByStatus(ctx, sales.QuoteStatusNew, sales.QuoteStatusAnalyzing)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("count with no statuses is zero", func(t *testing.T) {
		count, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestGormQuoteRepository_GroupByStatus(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Save(ctx, newTestQuote(t, now, sales.QuoteStatusNew)))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, now, sales.QuoteStatusNew)))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, now, sales.QuoteStatusApproved)))

	counts, err := repo.GroupByStatus(ctx)
	require.NoError(t, err)

	byStatus := map[sales.QuoteStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(2), byStatus[sales.QuoteStatusNew])
	assert.Equal(t, int64(1), byStatus[sales.QuoteStatusApproved])

	// Statuses with zero quotes are not returned
	assert.Len(t, counts, 2)
	assert.NotContains(t, byStatus, sales.QuoteStatusRejected)
}

func TestGormQuoteRepository_GroupByDay(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	require.NoError(t, repo.Save(ctx, newTestQuote(t, today.Add(9*time.Hour), sales.QuoteStatusNew)))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, today.Add(15*time.Hour), sales.QuoteStatusNew)))
	twoDaysAgo := today.AddDate(0, 0, -2)
	require.NoError(t, repo.Save(ctx, newTestQuote(t, twoDaysAgo.Add(10*time.Hour), sales.QuoteStatusNew)))
	// Outside the window
	require.NoError(t, repo.Save(ctx, newTestQuote(t, today.AddDate(0, 0, -10), sales.QuoteStatusNew)))

	counts, err := repo.GroupByDay(ctx, today.AddDate(0, 0, -6))
	require.NoError(t, err)

	require.Len(t, counts, 2, "days with zero quotes are omitted")
	assert.Equal(t, twoDaysAgo.Format("2006-01-02"), counts[0].Date)
	assert.Equal(t, int64(1), counts[0].Count)
	assert.Equal(t, today.Format("2006-01-02"), counts[1].Date)
	assert.Equal(t, int64(2), counts[1].Count)
}

func TestGormQuoteRepository_Delete(t *testing.T) {
	db := setupQuoteTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	t.Run("deletes existing quote", func(t *testing.T) {
		q := newTestQuote(t, time.Now(), sales.QuoteStatusNew)
		require.NoError(t, repo.Save(ctx, q))

		require.NoError(t, repo.Delete(ctx, q.ID))

		_, err := repo.FindByID(ctx, q.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing quote reports not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

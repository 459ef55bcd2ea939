package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuote(t *testing.T) {
	customerID := uuid.New()

	t.Run("creates quote in NEW status", func(t *testing.T) {
		serviceID := uuid.New()
		q, err := NewQuote(customerID, &serviceID, "Pioneer DMH-ZS9280TV", "Honda Civic 2022", "Gostaria de um orçamento")

		require.NoError(t, err)
		assert.Equal(t, QuoteStatusNew, q.Status)
		assert.Equal(t, customerID, q.CustomerID)
		require.NotNil(t, q.ServiceID)
		assert.Equal(t, serviceID, *q.ServiceID)
		assert.Nil(t, q.RespondedAt)
		assert.True(t, q.IsPending())
	})

	t.Run("allows quote without service", func(t *testing.T) {
		q, err := NewQuote(customerID, nil, "", "Fiat Argo", "")

		require.NoError(t, err)
		assert.Nil(t, q.ServiceID)
	})

	t.Run("fails with nil customer", func(t *testing.T) {
		q, err := NewQuote(uuid.Nil, nil, "", "", "")

		assert.Error(t, err)
		assert.Nil(t, q)
	})
}

func TestQuoteChangeStatus(t *testing.T) {
	newQuote := func(t *testing.T) *Quote {
		q, err := NewQuote(uuid.New(), nil, "", "", "")
		require.NoError(t, err)
		return q
	}

	t.Run("walks the full happy path", func(t *testing.T) {
		q := newQuote(t)

		require.NoError(t, q.ChangeStatus(QuoteStatusAnalyzing))
		require.NoError(t, q.ChangeStatus(QuoteStatusQuoteSent))
		require.NoError(t, q.ChangeStatus(QuoteStatusApproved))
		require.NoError(t, q.ChangeStatus(QuoteStatusCompleted))

		assert.Equal(t, QuoteStatusCompleted, q.Status)
	})

	t.Run("first status change stamps RespondedAt", func(t *testing.T) {
		q := newQuote(t)
		assert.Nil(t, q.RespondedAt)

		require.NoError(t, q.ChangeStatus(QuoteStatusAnalyzing))
		assert.NotNil(t, q.RespondedAt)
	})

	t.Run("rejects skipping ahead", func(t *testing.T) {
		q := newQuote(t)

		err := q.ChangeStatus(QuoteStatusApproved)
		assert.Error(t, err)
		assert.Equal(t, QuoteStatusNew, q.Status)
	})

	t.Run("allows rejection at any open stage", func(t *testing.T) {
		q := newQuote(t)
		require.NoError(t, q.ChangeStatus(QuoteStatusAnalyzing))
		require.NoError(t, q.ChangeStatus(QuoteStatusRejected))
		assert.False(t, q.IsOpen())
	})

	t.Run("terminal statuses accept no transitions", func(t *testing.T) {
		q := newQuote(t)
		require.NoError(t, q.ChangeStatus(QuoteStatusRejected))

		err := q.ChangeStatus(QuoteStatusAnalyzing)
		assert.Error(t, err)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		q := newQuote(t)
		require.NoError(t, q.ChangeStatus(QuoteStatusNew))
		assert.Nil(t, q.RespondedAt)
	})

	t.Run("fails with unknown status", func(t *testing.T) {
		q := newQuote(t)
		assert.Error(t, q.ChangeStatus(QuoteStatus("WAITING")))
	})
}

func TestQuoteSetEstimatedValue(t *testing.T) {
	q, err := NewQuote(uuid.New(), nil, "", "", "")
	require.NoError(t, err)

	t.Run("stores the value", func(t *testing.T) {
		require.NoError(t, q.SetEstimatedValue(decimal.NewFromFloat(1250.50)))
		require.NotNil(t, q.EstimatedValue)
		assert.True(t, q.EstimatedValue.Equal(decimal.NewFromFloat(1250.50)))
	})

	t.Run("rejects negative values", func(t *testing.T) {
		assert.Error(t, q.SetEstimatedValue(decimal.NewFromInt(-1)))
	})
}

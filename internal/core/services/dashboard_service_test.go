package services

import (
	"context"
	"testing"

	"fee-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "1", 100)
	env.register(t, "2", 200)
	env.register(t, "3", 300)
	env.pay(t, "001", 100, "2024-03-05")
	env.pay(t, "002", 70, "2024-01-20")
	env.pay(t, "003", 50, "2024-03-02")
	env.pay(t, "001", 999, "2023-12-30")
	require.NoError(t, env.clients.Inactivate(ctx, "003", "closed"))

	data, err := env.dashboard.Summary(ctx)
	require.NoError(t, err)

	assert.True(t, data.Projected.Equal(decimal.NewFromInt(200)), data.Projected.String())
	// payments of inactive clients still count as collected
	assert.True(t, data.CollectedThisMonth.Equal(decimal.NewFromInt(150)), data.CollectedThisMonth.String())
	assert.True(t, data.CollectedThisYear.Equal(decimal.NewFromInt(220)), data.CollectedThisYear.String())
	assert.Equal(t, 1, data.OnTimeCount)
	assert.Equal(t, 1, data.DelinquentCount)
	assert.Equal(t, 2, data.TotalActiveClients)
	assert.Equal(t, 1, data.TotalInactiveClients)
	assert.Equal(t, "2024-03", data.CurrentMonthKey)
	assert.Equal(t, 2024, data.CurrentYear)
}

func TestDashboardService_SummaryEmpty(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.dashboard.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, data.Projected.IsZero())
	assert.True(t, data.CollectedThisMonth.IsZero())
	assert.Zero(t, data.TotalActiveClients)
}

func TestDashboardService_Revenue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "1", 100)
	env.pay(t, "001", 100, "2024-01-31")
	env.pay(t, "001", 40, "2024-02-29")
	env.pay(t, "001", 60, "2024-02-29")
	env.pay(t, "001", 25, "2024-03-01")

	t.Run("monthly", func(t *testing.T) {
		s, err := env.dashboard.Revenue(ctx, RevenueQuery{})
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, s.Keys)
		require.Len(t, s.Values, 3)
		assert.True(t, s.Values[1].Equal(decimal.NewFromInt(100)))
	})

	t.Run("daily current month", func(t *testing.T) {
		s, err := env.dashboard.Revenue(ctx, RevenueQuery{Daily: true})
		require.NoError(t, err)
		require.Len(t, s.Keys, 31)
		assert.Equal(t, "2024-03-01", s.Keys[0])
		assert.True(t, s.Values[0].Equal(decimal.NewFromInt(25)))
		assert.True(t, s.Values[30].IsZero())
	})

	t.Run("daily leap february", func(t *testing.T) {
		s, err := env.dashboard.Revenue(ctx, RevenueQuery{Daily: true, Month: 2, Year: 2024})
		require.NoError(t, err)
		require.Len(t, s.Keys, 29)
		assert.Equal(t, "2024-02-29", s.Keys[28])
		assert.True(t, s.Values[28].Equal(decimal.NewFromInt(100)))
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := env.dashboard.Revenue(ctx, RevenueQuery{Daily: true, Month: 13})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

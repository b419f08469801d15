package services

import (
	"context"
	"fmt"
	"strconv"

	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/core/billing"
	"fee-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	clientRepo  repositories.ClientRepository
	paymentRepo repositories.PaymentRepository
	now         Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	clientRepo repositories.ClientRepository,
	paymentRepo repositories.PaymentRepository,
	clock Clock,
) *DashboardService {
	return &DashboardService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		now:         clock,
	}
}

// ============================================================
// Summary
// ============================================================

// DashboardData represents the dashboard figures for the current month
type DashboardData struct {
	// Revenue
	Projected          decimal.Decimal `json:"projected"`
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	CollectedThisYear  decimal.Decimal `json:"collected_this_year"`

	// Client Statistics
	DelinquentCount      int `json:"delinquent_count"`
	OnTimeCount          int `json:"on_time_count"`
	TotalActiveClients   int `json:"total_active_clients"`
	TotalInactiveClients int `json:"total_inactive_clients"`

	// Reference Period
	CurrentMonthKey string `json:"current_month_key"`
	CurrentYear     int    `json:"current_year"`
}

// Summary computes the dashboard figures for the current month
func (s *DashboardService) Summary(ctx context.Context) (*DashboardData, error) {
	rows, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	period := domain.PeriodOf(s.now())
	year := strconv.Itoa(period.Year)
	payments, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{
		DateFrom: year + "-01-01",
		DateTo:   year + "-12-31",
	})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	sum := billing.Summarize(toDomainClients(rows), toDomainPayments(payments), period)

	return &DashboardData{
		Projected:            sum.Projected,
		CollectedThisMonth:   sum.CollectedThisMonth,
		CollectedThisYear:    sum.CollectedThisYear,
		DelinquentCount:      sum.Counts.Delinquent,
		OnTimeCount:          sum.Counts.OnTime,
		TotalActiveClients:   sum.Counts.Active,
		TotalInactiveClients: sum.Counts.Inactive,
		CurrentMonthKey:      period.Key(),
		CurrentYear:          period.Year,
	}, nil
}

// ============================================================
// Revenue Chart
// ============================================================

// RevenueQuery selects the revenue series. Month and Year apply to the daily
// series only; zero means the current month or year.
type RevenueQuery struct {
	Daily bool
	Month int
	Year  int
}

// RevenueSeries is a chart series with parallel keys and values
type RevenueSeries struct {
	Keys   []string          `json:"keys"`
	Values []decimal.Decimal `json:"values"`
}

// Revenue returns the monthly series over all payments, or the daily series
// of one month
func (s *DashboardService) Revenue(ctx context.Context, q RevenueQuery) (*RevenueSeries, error) {
	if !q.Daily {
		rows, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{})
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		return newRevenueSeries(billing.MonthlySeries(toDomainPayments(rows))), nil
	}

	current := domain.PeriodOf(s.now())
	year, month := q.Year, q.Month
	if year == 0 {
		year = current.Year
	}
	if month == 0 {
		month = int(current.Month)
	}
	period, err := domain.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}

	from, to := periodBounds(period)
	rows, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return newRevenueSeries(billing.DailySeries(toDomainPayments(rows), period)), nil
}

func newRevenueSeries(s billing.Series) *RevenueSeries {
	return &RevenueSeries{Keys: s.Keys, Values: s.Values}
}

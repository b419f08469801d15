package billing

import (
	"sort"
	"strconv"

	"fee-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Summary holds the dashboard totals for a reference period
type Summary struct {
	Projected          decimal.Decimal
	CollectedThisMonth decimal.Decimal
	CollectedThisYear  decimal.Decimal
	Counts             Counts
	Period             domain.Period
}

// CollectedInPeriod sums the payments dated inside the period, regardless of
// the paying client's status
func CollectedInPeriod(payments []domain.Payment, period domain.Period) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if period.Contains(p.PaymentDate) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// CollectedInYear sums the payments whose payment date falls in year
func CollectedInYear(payments []domain.Payment, year int) decimal.Decimal {
	prefix := strconv.Itoa(year)
	total := decimal.Zero
	for _, p := range payments {
		if len(p.PaymentDate) >= 4 && p.PaymentDate[:4] == prefix {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Projected sums the monthly fee of every active client that has not paid in
// the period. It is zero when there are no active clients.
func Projected(clients []domain.Client, payments []domain.Payment, period domain.Period) decimal.Decimal {
	return projectedFees(Classify(clients, payments, period))
}

// projectedFees sums the fees of the delinquent clients of a classified list
func projectedFees(classified []domain.Client) decimal.Decimal {
	total := decimal.Zero
	for _, c := range classified {
		if c.Status() == domain.StatusDelinquent {
			total = total.Add(c.MonthlyFee)
		}
	}
	return total
}

// Summarize computes every dashboard figure for the period
func Summarize(clients []domain.Client, payments []domain.Payment, period domain.Period) Summary {
	classified := Classify(clients, payments, period)

	return Summary{
		Projected:          projectedFees(classified),
		CollectedThisMonth: CollectedInPeriod(payments, period),
		CollectedThisYear:  CollectedInYear(payments, period.Year),
		Counts:             Count(classified),
		Period:             period,
	}
}

// Series is a chart series of parallel keys and values, keys ascending
type Series struct {
	Keys   []string
	Values []decimal.Decimal
}

// Len returns the number of points
func (s Series) Len() int { return len(s.Keys) }

// MonthlySeries groups payments by YYYY-MM. Only months with at least one
// payment appear.
func MonthlySeries(payments []domain.Payment) Series {
	buckets := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if len(p.PaymentDate) < 7 {
			continue
		}
		key := p.PaymentDate[:7]
		buckets[key] = buckets[key].Add(p.Amount)
	}
	return toSeries(buckets)
}

// DailySeries groups the payments of one period by YYYY-MM-DD. Every day of
// the period is present, zero when nothing was paid.
func DailySeries(payments []domain.Payment, period domain.Period) Series {
	buckets := make(map[string]decimal.Decimal, period.Days())
	for day := 1; day <= period.Days(); day++ {
		buckets[period.DayKey(day)] = decimal.Zero
	}
	for _, p := range payments {
		if !period.Contains(p.PaymentDate) || len(p.PaymentDate) < 10 {
			continue
		}
		key := p.PaymentDate[:10]
		if _, ok := buckets[key]; !ok {
			continue
		}
		buckets[key] = buckets[key].Add(p.Amount)
	}
	return toSeries(buckets)
}

// toSeries sorts keys lexicographically, which is chronological for both
// key formats
func toSeries(buckets map[string]decimal.Decimal) Series {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]decimal.Decimal, len(keys))
	for i, k := range keys {
		values[i] = buckets[k]
	}
	return Series{Keys: keys, Values: values}
}

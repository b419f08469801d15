// Package billing derives client payment status and revenue figures from the
// client and payment collections. Every function here is pure: callers pass
// the full collections and the reference period, nothing is cached.
package billing

import (
	"fee-ledger/internal/core/domain"
)

// PaidClients returns the set of client ids with at least one payment dated
// inside the period
func PaidClients(payments []domain.Payment, period domain.Period) map[string]bool {
	paid := make(map[string]bool)
	for _, p := range payments {
		if period.Contains(p.PaymentDate) {
			paid[p.ClientID] = true
		}
	}
	return paid
}

// Classify returns a copy of clients with the state of every active client
// recomputed for the period. Inactive clients pass through unchanged.
func Classify(clients []domain.Client, payments []domain.Payment, period domain.Period) []domain.Client {
	paid := PaidClients(payments, period)

	out := make([]domain.Client, len(clients))
	for i, c := range clients {
		out[i] = c
		if c.IsInactive() {
			continue
		}
		out[i].State = domain.Active{PaidThisPeriod: paid[c.ID]}
	}
	return out
}

// Counts summarizes a classified client list
type Counts struct {
	OnTime     int
	Delinquent int
	Active     int
	Inactive   int
}

// Count tallies classified clients by status
func Count(classified []domain.Client) Counts {
	var n Counts
	for _, c := range classified {
		switch c.Status() {
		case domain.StatusInactive:
			n.Inactive++
		case domain.StatusOnTime:
			n.OnTime++
			n.Active++
		default:
			n.Delinquent++
			n.Active++
		}
	}
	return n
}

// Delinquent returns the active clients without a payment in the period
func Delinquent(clients []domain.Client, payments []domain.Payment, period domain.Period) []domain.Client {
	var out []domain.Client
	for _, c := range Classify(clients, payments, period) {
		if c.Status() == domain.StatusDelinquent {
			out = append(out, c)
		}
	}
	return out
}

// FilterByStatus keeps the classified clients with the given status
func FilterByStatus(classified []domain.Client, status domain.ClientStatus) []domain.Client {
	out := make([]domain.Client, 0, len(classified))
	for _, c := range classified {
		if c.Status() == status {
			out = append(out, c)
		}
	}
	return out
}

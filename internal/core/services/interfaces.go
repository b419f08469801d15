package services

import (
	"context"
	"time"

	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/core/domain"
)

// MailSender delivers one HTML message. Implementations report failure per
// call; callers decide whether to continue.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Clock returns the current time in the office time zone
type Clock func() time.Time

// SystemClock returns a clock reading time.Now in loc
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// today formats the clock's current date as YYYY-MM-DD
func (c Clock) today() string {
	return c().Format(domain.DateLayout)
}

// periodBounds returns the first and last calendar date of p
func periodBounds(p domain.Period) (string, string) {
	return p.DayKey(1), p.DayKey(p.Days())
}

func toDomainClients(rows []*models.Client) []domain.Client {
	out := make([]domain.Client, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out
}

func toDomainPayments(rows []*models.Payment) []domain.Payment {
	out := make([]domain.Payment, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out
}

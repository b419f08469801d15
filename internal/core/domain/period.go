package domain

import (
	"fmt"
	"time"
)

// Period is a calendar year-month
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// NewPeriod validates month and returns the period
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, Invalid("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return Period{}, Invalid("year", "must be between 1 and 9999")
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Key formats the period as YYYY-MM
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Days returns the number of calendar days in the period
func (p Period) Days() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayKey formats a day of the period as YYYY-MM-DD
func (p Period) DayKey(day int) string {
	return fmt.Sprintf("%s-%02d", p.Key(), day)
}

// Contains reports whether the YYYY-MM-DD date falls in the period
func (p Period) Contains(date string) bool {
	return len(date) >= 7 && date[:7] == p.Key()
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientStatus is the label shown for a client
type ClientStatus string

const (
	StatusOnTime     ClientStatus = "on-time"
	StatusDelinquent ClientStatus = "delinquent"
	StatusInactive   ClientStatus = "inactive"
)

// Valid reports whether s is one of the known labels
func (s ClientStatus) Valid() bool {
	switch s {
	case StatusOnTime, StatusDelinquent, StatusInactive:
		return true
	}
	return false
}

// FeeChangeKind tells whether a fee history entry came from registration or an edit
type FeeChangeKind string

const (
	FeeChangeInitial FeeChangeKind = "initial"
	FeeChangeUpdate  FeeChangeKind = "change"
)

// BillStatus is the persisted state of a payable bill
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
)

// DateLayout is the layout of every calendar date in the system
const DateLayout = "2006-01-02"

// Client represents a billed client in the domain layer
type Client struct {
	ID           string
	Name         string
	TaxID        string
	Address      string
	TaxRegime    string
	Email        string
	Phone        string
	MonthlyFee   decimal.Decimal
	Partners     string
	Modules      []string
	RegisteredAt time.Time
	State        ClientState
	FeeHistory   []FeeChange
}

// FeeChange is one entry of a client's fee history
type FeeChange struct {
	Value         decimal.Decimal
	PreviousValue *decimal.Decimal
	ChangedAt     time.Time
	Kind          FeeChangeKind
}

// Payment is a monthly fee payment received from a client
type Payment struct {
	ID           string
	ClientID     string
	Amount       decimal.Decimal
	PaymentDate  string // YYYY-MM-DD
	RegisteredAt time.Time
	Note         string
}

// Bill is a payable owed by the office
type Bill struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	DueDate     string // YYYY-MM-DD
	Category    string
	Recurring   bool
	Status      BillStatus
	PaymentDate *string
	Note        string
}

// Overdue reports whether the bill is pending and its due date is before today.
// It is a display label and never stored.
func (b Bill) Overdue(now time.Time) bool {
	if b.Status == BillPaid {
		return false
	}
	due, err := ParseDate(b.DueDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// ParseDate parses a YYYY-MM-DD calendar date in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

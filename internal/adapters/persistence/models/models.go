package models

import (
	"time"

	"fee-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Clients
// ============================================================

// Client represents clients table
type Client struct {
	ID                 string                      `gorm:"primaryKey;size:20" json:"id"`
	Name               string                      `gorm:"size:200;not null" json:"name"`
	TaxID              string                      `gorm:"size:30;uniqueIndex;not null" json:"tax_id"`
	Address            string                      `gorm:"type:text;not null" json:"address"`
	TaxRegime          string                      `gorm:"size:50;not null" json:"tax_regime"`
	Email              string                      `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone              string                      `gorm:"size:30;not null" json:"phone"`
	MonthlyFee         decimal.Decimal             `gorm:"type:decimal(15,2);not null" json:"monthly_fee"`
	Partners           string                      `gorm:"type:text" json:"partners"`
	Modules            datatypes.JSONSlice[string] `json:"modules"`
	Inactive           bool                        `gorm:"default:false;index" json:"inactive"`
	InactivationReason *string                     `gorm:"type:text" json:"inactivation_reason,omitempty"`
	InactivatedAt      *time.Time                  `json:"inactivated_at,omitempty"`
	RegisteredAt       time.Time                   `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt          time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	FeeHistory []FeeChange `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"fee_history,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// FeeChange represents client_fee_changes table (fee history, oldest first by ID)
type FeeChange struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ClientID      string           `gorm:"size:20;index;not null" json:"client_id"`
	Value         decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"value"`
	PreviousValue *decimal.Decimal `gorm:"type:decimal(15,2)" json:"previous_value,omitempty"`
	Kind          string           `gorm:"size:20;not null" json:"kind"`
	ChangedAt     time.Time        `gorm:"not null" json:"changed_at"`
}

func (FeeChange) TableName() string {
	return "client_fee_changes"
}

// ToDomain converts the row to the domain client. The on-time/delinquent
// split is left to the billing classifier.
func (c *Client) ToDomain() domain.Client {
	out := domain.Client{
		ID:           c.ID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		Address:      c.Address,
		TaxRegime:    c.TaxRegime,
		Email:        c.Email,
		Phone:        c.Phone,
		MonthlyFee:   c.MonthlyFee,
		Partners:     c.Partners,
		Modules:      []string(c.Modules),
		RegisteredAt: c.RegisteredAt,
		State:        domain.Active{},
	}
	if out.Modules == nil {
		out.Modules = []string{}
	}

	if c.Inactive {
		st := domain.Inactive{}
		if c.InactivationReason != nil {
			st.Reason = *c.InactivationReason
		}
		if c.InactivatedAt != nil {
			st.Since = *c.InactivatedAt
		}
		out.State = st
	}

	out.FeeHistory = make([]domain.FeeChange, len(c.FeeHistory))
	for i, h := range c.FeeHistory {
		out.FeeHistory[i] = h.ToDomain()
	}
	return out
}

// ToDomain converts the row to the domain fee change
func (f *FeeChange) ToDomain() domain.FeeChange {
	return domain.FeeChange{
		Value:         f.Value,
		PreviousValue: f.PreviousValue,
		ChangedAt:     f.ChangedAt,
		Kind:          domain.FeeChangeKind(f.Kind),
	}
}

// ClientResponse DTO
type ClientResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	TaxID              string              `json:"tax_id"`
	Address            string              `json:"address"`
	TaxRegime          string              `json:"tax_regime"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone"`
	MonthlyFee         decimal.Decimal     `json:"monthly_fee"`
	Partners           string              `json:"partners"`
	Modules            []string            `json:"modules"`
	RegisteredAt       time.Time           `json:"registered_at"`
	Status             domain.ClientStatus `json:"status"`
	InactivationReason *string             `json:"inactivation_reason,omitempty"`
	InactivatedAt      *time.Time          `json:"inactivated_at,omitempty"`
	FeeHistory         []FeeChangeResponse `json:"fee_history"`
}

// FeeChangeResponse DTO
type FeeChangeResponse struct {
	Value         decimal.Decimal  `json:"value"`
	PreviousValue *decimal.Decimal `json:"previous_value,omitempty"`
	ChangedAt     time.Time        `json:"changed_at"`
	Kind          string           `json:"kind"`
}

// NewClientResponse builds the response for a classified domain client
func NewClientResponse(c domain.Client) *ClientResponse {
	resp := &ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		Address:      c.Address,
		TaxRegime:    c.TaxRegime,
		Email:        c.Email,
		Phone:        c.Phone,
		MonthlyFee:   c.MonthlyFee,
		Partners:     c.Partners,
		Modules:      c.Modules,
		RegisteredAt: c.RegisteredAt,
		Status:       c.Status(),
		FeeHistory:   NewFeeHistoryResponse(c.FeeHistory),
	}
	if st, ok := c.State.(domain.Inactive); ok {
		reason := st.Reason
		since := st.Since
		resp.InactivationReason = &reason
		resp.InactivatedAt = &since
	}
	return resp
}

// NewFeeHistoryResponse converts a fee history, keeping its order
func NewFeeHistoryResponse(history []domain.FeeChange) []FeeChangeResponse {
	out := make([]FeeChangeResponse, len(history))
	for i, h := range history {
		out[i] = FeeChangeResponse{
			Value:         h.Value,
			PreviousValue: h.PreviousValue,
			ChangedAt:     h.ChangedAt,
			Kind:          string(h.Kind),
		}
	}
	return out
}

// ============================================================
// Payments
// ============================================================

// Payment represents payments table
type Payment struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	ClientID     string          `gorm:"size:20;index;not null" json:"client_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate  string          `gorm:"size:10;index;not null" json:"payment_date"`
	RegisteredAt time.Time       `gorm:"autoCreateTime" json:"registered_at"`
	Note         string          `gorm:"type:text" json:"note"`
}

func (Payment) TableName() string {
	return "payments"
}

// ToDomain converts the row to the domain payment
func (p *Payment) ToDomain() domain.Payment {
	return domain.Payment{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Amount:       p.Amount,
		PaymentDate:  p.PaymentDate,
		RegisteredAt: p.RegisteredAt,
		Note:         p.Note,
	}
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  string          `json:"payment_date"`
	RegisteredAt time.Time       `json:"registered_at"`
	Note         string          `json:"note"`
}

// NewPaymentResponse builds the response for a domain payment
func NewPaymentResponse(p domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Amount:       p.Amount,
		PaymentDate:  p.PaymentDate,
		RegisteredAt: p.RegisteredAt,
		Note:         p.Note,
	}
}

// ============================================================
// Bills (payables)
// ============================================================

// Bill represents bills table
type Bill struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate     string          `gorm:"size:10;index;not null" json:"due_date"`
	Category    string          `gorm:"size:100;not null" json:"category"`
	Recurring   bool            `gorm:"default:false" json:"recurring"`
	Status      string          `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentDate *string         `gorm:"size:10" json:"payment_date"`
	Note        string          `gorm:"type:text" json:"note"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}

// ToDomain converts the row to the domain bill
func (b *Bill) ToDomain() domain.Bill {
	return domain.Bill{
		ID:          b.ID,
		Description: b.Description,
		Amount:      b.Amount,
		DueDate:     b.DueDate,
		Category:    b.Category,
		Recurring:   b.Recurring,
		Status:      domain.BillStatus(b.Status),
		PaymentDate: b.PaymentDate,
		Note:        b.Note,
	}
}

// BillResponse DTO
type BillResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Category    string          `json:"category"`
	Recurring   bool            `json:"recurring"`
	Status      string          `json:"status"`
	Overdue     bool            `json:"overdue"`
	PaymentDate *string         `json:"payment_date"`
	Note        string          `json:"note"`
}

// NewBillResponse builds the response for a domain bill with its derived overdue flag
func NewBillResponse(b domain.Bill, overdue bool) *BillResponse {
	return &BillResponse{
		ID:          b.ID,
		Description: b.Description,
		Amount:      b.Amount,
		DueDate:     b.DueDate,
		Category:    b.Category,
		Recurring:   b.Recurring,
		Status:      string(b.Status),
		Overdue:     overdue,
		PaymentDate: b.PaymentDate,
		Note:        b.Note,
	}
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&FeeChange{},
		&Payment{},
		&Bill{},
	)
}

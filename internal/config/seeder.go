package config

import (
	"fmt"
	"log/slog"
	"time"

	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, now func() time.Time) *Seeder {
	if now == nil {
		now = time.Now
	}
	return &Seeder{db: db, now: now}
}

// Run seeds demo data. It does nothing when any client already exists.
// This is for development/testing only.
func (s *Seeder) Run() error {
	var count int64
	if err := s.db.Model(&models.Client{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("demo seed skipped, clients already present", "clients", count)
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.seedClients(tx); err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}
		if err := s.seedBills(tx); err != nil {
			return fmt.Errorf("seed bills: %w", err)
		}
		slog.Info("demo data seeded")
		return nil
	})
}

// seedClients creates three clients: one paid this month, one delinquent
// and one inactive
func (s *Seeder) seedClients(tx *gorm.DB) error {
	now := s.now()
	month := domain.PeriodOf(now)
	last := domain.PeriodOf(now.AddDate(0, -1, 0))
	reason := "Company closed"

	clients := []models.Client{
		{
			ID: "001", Name: "Acme Trading Ltd", TaxID: "12.345.678/0001-90",
			Address: "1 Main Street", TaxRegime: "Simples Nacional",
			Email: "finance@acme.example", Phone: "+55 11 4000-0001",
			MonthlyFee: decimal.NewFromInt(1500), Modules: []string{"fiscal", "payroll"},
		},
		{
			ID: "002", Name: "Blue Harbor Services", TaxID: "98.765.432/0001-10",
			Address: "22 Harbor Road", TaxRegime: "Lucro Presumido",
			Email: "accounts@blueharbor.example", Phone: "+55 11 4000-0002",
			MonthlyFee: decimal.NewFromInt(980), Partners: "Ana Lima; Rui Costa",
		},
		{
			ID: "003", Name: "Old Mill Bakery", TaxID: "123.456.789-00",
			Address: "3 Mill Lane", TaxRegime: "MEI",
			Email: "owner@oldmill.example", Phone: "+55 11 4000-0003",
			MonthlyFee: decimal.NewFromInt(300),
			Inactive:   true, InactivationReason: &reason, InactivatedAt: &now,
		},
	}
	for i := range clients {
		clients[i].RegisteredAt = now
		clients[i].FeeHistory = []models.FeeChange{{
			Value:     clients[i].MonthlyFee,
			Kind:      string(domain.FeeChangeInitial),
			ChangedAt: now,
		}}
		if err := tx.Create(&clients[i]).Error; err != nil {
			return err
		}
	}

	payments := []models.Payment{
		{ClientID: "001", Amount: decimal.NewFromInt(1500), PaymentDate: month.DayKey(1)},
		{ClientID: "001", Amount: decimal.NewFromInt(1500), PaymentDate: last.DayKey(5)},
		{ClientID: "002", Amount: decimal.NewFromInt(980), PaymentDate: last.DayKey(10)},
	}
	for i := range payments {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		payments[i].ID = id.String()
		payments[i].RegisteredAt = now
		if err := tx.Create(&payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedBills(tx *gorm.DB) error {
	now := s.now()
	paidOn := now.AddDate(0, 0, -3).Format(domain.DateLayout)

	bills := []models.Bill{
		{Description: "Office rent", Amount: decimal.NewFromInt(2500), Category: "rent", Recurring: true,
			DueDate: now.AddDate(0, 0, 3).Format(domain.DateLayout), Status: string(domain.BillPending)},
		{Description: "Internet", Amount: decimal.NewFromInt(150), Category: "utilities", Recurring: true,
			DueDate: now.AddDate(0, 0, -2).Format(domain.DateLayout), Status: string(domain.BillPending)},
		{Description: "Accounting software", Amount: decimal.NewFromInt(400), Category: "software",
			DueDate: now.AddDate(0, 0, -5).Format(domain.DateLayout), Status: string(domain.BillPaid), PaymentDate: &paidOn},
	}
	for i := range bills {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		bills[i].ID = id.String()
		if err := tx.Create(&bills[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

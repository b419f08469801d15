package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecentWindowDays is the look-back of the recent payments panel
const RecentWindowDays = 7

// PaymentService handles payment registration and listing
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	clientRepo  repositories.ClientRepository
	now         Clock
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	clientRepo repositories.ClientRepository,
	clock Clock,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		now:         clock,
	}
}

// PaymentInput represents register payment input
type PaymentInput struct {
	ClientID    string
	Amount      decimal.Decimal
	PaymentDate string
	Note        string
}

// Register records a payment against an existing client
func (s *PaymentService) Register(ctx context.Context, input PaymentInput) (*domain.Payment, error) {
	input.ClientID = strings.TrimSpace(input.ClientID)
	input.PaymentDate = strings.TrimSpace(input.PaymentDate)

	if input.ClientID == "" {
		return nil, domain.Invalid("client_id", "is required")
	}
	if !input.Amount.IsPositive() {
		return nil, domain.Invalid("amount", "must be greater than 0")
	}
	if input.PaymentDate == "" {
		input.PaymentDate = s.now.today()
	}
	if _, err := domain.ParseDate(input.PaymentDate, s.now().Location()); err != nil {
		return nil, domain.Invalid("payment_date", "must be a YYYY-MM-DD date")
	}

	if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("payment id: %w", err)
	}

	row := &models.Payment{
		ID:           id.String(),
		ClientID:     input.ClientID,
		Amount:       input.Amount,
		PaymentDate:  input.PaymentDate,
		RegisteredAt: s.now(),
		Note:         strings.TrimSpace(input.Note),
	}
	if err := s.paymentRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	slog.InfoContext(ctx, "payment registered",
		"payment_id", row.ID,
		"client_id", row.ClientID,
		"amount", row.Amount.StringFixed(2),
		"payment_date", row.PaymentDate)

	payment := row.ToDomain()
	return &payment, nil
}

// List returns every payment matching filter, oldest first
func (s *PaymentService) List(ctx context.Context, filter repositories.PaymentFilter) ([]domain.Payment, error) {
	rows, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return toDomainPayments(rows), nil
}

// ListPage returns one page of payments matching filter, newest first
func (s *PaymentService) ListPage(ctx context.Context, filter repositories.PaymentFilter, offset, limit int) ([]domain.Payment, int64, error) {
	rows, total, err := s.paymentRepo.ListPage(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return toDomainPayments(rows), total, nil
}

// Recent returns payments dated within the last days days, today included,
// newest first
func (s *PaymentService) Recent(ctx context.Context, days int) ([]domain.Payment, error) {
	if days <= 0 {
		days = RecentWindowDays
	}
	now := s.now()
	filter := repositories.PaymentFilter{
		DateFrom: now.AddDate(0, 0, -days).Format(domain.DateLayout),
		DateTo:   now.Format(domain.DateLayout),
	}

	payments, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(payments)-1; i < j; i, j = i+1, j-1 {
		payments[i], payments[j] = payments[j], payments[i]
	}
	return payments, nil
}

// Delete removes a payment
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return fmt.Errorf("delete payment: %w", err)
	}
	slog.InfoContext(ctx, "payment deleted", "payment_id", id)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/core/billing"
	"fee-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClientService handles client registration, edits and status reads
type ClientService struct {
	clientRepo  repositories.ClientRepository
	paymentRepo repositories.PaymentRepository
	now         Clock
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repositories.ClientRepository,
	paymentRepo repositories.PaymentRepository,
	clock Clock,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		now:         clock,
	}
}

// ClientInput represents register/update client input
type ClientInput struct {
	Name       string
	TaxID      string
	Address    string
	TaxRegime  string
	Email      string
	Phone      string
	MonthlyFee decimal.Decimal
	Partners   string
	Modules    []string
}

// normalize trims text fields and validates the required ones
func (in *ClientInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Address = strings.TrimSpace(in.Address)
	in.TaxRegime = strings.TrimSpace(in.TaxRegime)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Partners = strings.TrimSpace(in.Partners)

	required := []struct {
		field, value string
	}{
		{"name", in.Name},
		{"tax_id", in.TaxID},
		{"address", in.Address},
		{"tax_regime", in.TaxRegime},
		{"email", in.Email},
		{"phone", in.Phone},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.Invalid(r.field, "is required")
		}
	}

	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domain.Invalid("email", "is not a valid address")
	}
	if !in.MonthlyFee.IsPositive() {
		return domain.Invalid("monthly_fee", "must be greater than 0")
	}

	modules := make([]string, 0, len(in.Modules))
	for _, m := range in.Modules {
		if m = strings.TrimSpace(m); m != "" {
			modules = append(modules, m)
		}
	}
	in.Modules = modules
	return nil
}

// checkUnique rejects an email or tax id already used by another client
func (s *ClientService) checkUnique(ctx context.Context, in *ClientInput, excludeID string) error {
	exists, err := s.clientRepo.ExistsByEmail(ctx, in.Email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %w", domain.ErrDuplicateEntry, domain.ErrEmailAlreadyExists)
	}

	exists, err = s.clientRepo.ExistsByTaxID(ctx, in.TaxID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %w", domain.ErrDuplicateEntry, domain.ErrTaxIDAlreadyExists)
	}
	return nil
}

// Register creates a new client with its initial fee history entry
func (s *ClientService) Register(ctx context.Context, input ClientInput) (*domain.Client, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, &input, ""); err != nil {
		return nil, err
	}

	id, err := s.clientRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("next client id: %w", err)
	}

	now := s.now()
	row := &models.Client{
		ID:           id,
		Name:         input.Name,
		TaxID:        input.TaxID,
		Address:      input.Address,
		TaxRegime:    input.TaxRegime,
		Email:        input.Email,
		Phone:        input.Phone,
		MonthlyFee:   input.MonthlyFee,
		Partners:     input.Partners,
		Modules:      input.Modules,
		RegisteredAt: now,
		FeeHistory: []models.FeeChange{{
			Value:     input.MonthlyFee,
			Kind:      string(domain.FeeChangeInitial),
			ChangedAt: now,
		}},
	}

	if err := s.clientRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	slog.InfoContext(ctx, "client registered", "client_id", id, "email", input.Email)

	client := row.ToDomain()
	// a new client has no payment yet
	client.State = domain.Active{}
	return &client, nil
}

// List returns every client with its status recomputed for the current month.
// A non-empty status keeps only clients with that status.
func (s *ClientService) List(ctx context.Context, status domain.ClientStatus) ([]domain.Client, error) {
	rows, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	period := domain.PeriodOf(s.now())
	payments, err := s.periodPayments(ctx, period)
	if err != nil {
		return nil, err
	}

	classified := billing.Classify(toDomainClients(rows), payments, period)
	if status != "" {
		classified = billing.FilterByStatus(classified, status)
	}
	return classified, nil
}

// GetByID returns one client with its status recomputed for the current month
func (s *ClientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}

	period := domain.PeriodOf(s.now())
	from, to := periodBounds(period)
	rows, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{ClientID: id, DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	classified := billing.Classify([]domain.Client{row.ToDomain()}, toDomainPayments(rows), period)
	return &classified[0], nil
}

// Update edits a client. A fee history entry is appended only when the
// monthly fee actually changed.
func (s *ClientService) Update(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	current, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, &input, id); err != nil {
		return nil, err
	}

	var change *models.FeeChange
	if !current.MonthlyFee.Equal(input.MonthlyFee) {
		previous := current.MonthlyFee
		change = &models.FeeChange{
			Value:         input.MonthlyFee,
			PreviousValue: &previous,
			Kind:          string(domain.FeeChangeUpdate),
			ChangedAt:     s.now(),
		}
	}

	row := &models.Client{
		ID:         id,
		Name:       input.Name,
		TaxID:      input.TaxID,
		Address:    input.Address,
		TaxRegime:  input.TaxRegime,
		Email:      input.Email,
		Phone:      input.Phone,
		MonthlyFee: input.MonthlyFee,
		Partners:   input.Partners,
		Modules:    input.Modules,
	}
	if err := s.clientRepo.Update(ctx, row, change); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}

	if change != nil {
		slog.InfoContext(ctx, "client fee changed",
			"client_id", id,
			"previous", change.PreviousValue.StringFixed(2),
			"value", change.Value.StringFixed(2))
	}

	return s.GetByID(ctx, id)
}

// Inactivate marks a client inactive. The reason is required.
func (s *ClientService) Inactivate(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Invalid("reason", "is required")
	}
	if _, err := s.getRow(ctx, id); err != nil {
		return err
	}

	if err := s.clientRepo.SetInactive(ctx, id, reason, s.now()); err != nil {
		return fmt.Errorf("inactivate client: %w", err)
	}
	slog.InfoContext(ctx, "client inactivated", "client_id", id, "reason", reason)
	return nil
}

// Reactivate clears the inactive flag and its fields
func (s *ClientService) Reactivate(ctx context.Context, id string) (*domain.Client, error) {
	if _, err := s.getRow(ctx, id); err != nil {
		return nil, err
	}
	if err := s.clientRepo.ClearInactive(ctx, id); err != nil {
		return nil, fmt.Errorf("reactivate client: %w", err)
	}
	slog.InfoContext(ctx, "client reactivated", "client_id", id)
	return s.GetByID(ctx, id)
}

// Delete removes a client and all of its payments
func (s *ClientService) Delete(ctx context.Context, id string) error {
	removed, err := s.clientRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("delete client: %w", err)
	}
	slog.InfoContext(ctx, "client deleted", "client_id", id, "payments_removed", removed)
	return nil
}

// FeeHistory returns the client's fee history, oldest first
func (s *ClientService) FeeHistory(ctx context.Context, id string) ([]domain.FeeChange, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain().FeeHistory, nil
}

func (s *ClientService) getRow(ctx context.Context, id string) (*models.Client, error) {
	row, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return row, nil
}

func (s *ClientService) periodPayments(ctx context.Context, period domain.Period) ([]domain.Payment, error) {
	from, to := periodBounds(period)
	rows, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return toDomainPayments(rows), nil
}

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

// BillService handles the office's payable bills
type BillService struct {
	billRepo repositories.BillRepository
	now      Clock
}

// NewBillService creates a new bill service
func NewBillService(billRepo repositories.BillRepository, clock Clock) *BillService {
	return &BillService{
		billRepo: billRepo,
		now:      clock,
	}
}

// BillInput represents create/update bill input.
// An empty Status means pending.
type BillInput struct {
	Description string
	Amount      decimal.Decimal
	DueDate     string
	Category    string
	Recurring   bool
	Status      domain.BillStatus
	PaymentDate *string
	Note        string
}

// BillView is a bill with its overdue label derived at read time
type BillView struct {
	domain.Bill
	Overdue bool
}

// BillFilter narrows List. UpcomingDays > 0 keeps pending bills due from
// today up to that many days ahead.
type BillFilter struct {
	Status       domain.BillStatus
	OverdueOnly  bool
	UpcomingDays int
}

func (s *BillService) normalize(in *BillInput) error {
	in.Description = strings.TrimSpace(in.Description)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.Category = strings.TrimSpace(in.Category)
	in.Note = strings.TrimSpace(in.Note)

	if in.Description == "" {
		return domain.Invalid("description", "is required")
	}
	if in.Category == "" {
		return domain.Invalid("category", "is required")
	}
	if !in.Amount.IsPositive() {
		return domain.Invalid("amount", "must be greater than 0")
	}
	loc := s.now().Location()
	if _, err := domain.ParseDate(in.DueDate, loc); err != nil {
		return domain.Invalid("due_date", "must be a YYYY-MM-DD date")
	}

	switch in.Status {
	case "", domain.BillPending:
		in.Status = domain.BillPending
		in.PaymentDate = nil
	case domain.BillPaid:
		if in.PaymentDate == nil || strings.TrimSpace(*in.PaymentDate) == "" {
			today := s.now.today()
			in.PaymentDate = &today
		}
		date := strings.TrimSpace(*in.PaymentDate)
		if _, err := domain.ParseDate(date, loc); err != nil {
			return domain.Invalid("payment_date", "must be a YYYY-MM-DD date")
		}
		in.PaymentDate = &date
	default:
		return domain.Invalid("status", "must be pending or paid")
	}
	return nil
}

// Create stores a new bill
func (s *BillService) Create(ctx context.Context, input BillInput) (*BillView, error) {
	if err := s.normalize(&input); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("bill id: %w", err)
	}

	row := &models.Bill{
		ID:          id.String(),
		Description: input.Description,
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		Category:    input.Category,
		Recurring:   input.Recurring,
		Status:      string(input.Status),
		PaymentDate: input.PaymentDate,
		Note:        input.Note,
	}
	if err := s.billRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}

	slog.InfoContext(ctx, "bill created", "bill_id", row.ID, "due_date", row.DueDate)
	return s.view(row.ToDomain()), nil
}

// GetByID returns one bill
func (s *BillService) GetByID(ctx context.Context, id string) (*BillView, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(row.ToDomain()), nil
}

// List returns bills ordered by due date, filtered by f
func (s *BillService) List(ctx context.Context, f BillFilter) ([]BillView, error) {
	rows, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	now := s.now()
	today := now.Format(domain.DateLayout)
	var horizon string
	if f.UpcomingDays > 0 {
		horizon = now.AddDate(0, 0, f.UpcomingDays).Format(domain.DateLayout)
	}

	out := make([]BillView, 0, len(rows))
	for _, row := range rows {
		v := s.view(row.ToDomain())
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.OverdueOnly && !v.Overdue {
			continue
		}
		if horizon != "" {
			// date strings compare in calendar order
			if v.Status != domain.BillPending || v.DueDate < today || v.DueDate > horizon {
				continue
			}
		}
		out = append(out, *v)
	}
	return out, nil
}

// Update replaces a bill's editable fields. Setting status back to pending
// clears the payment date; a paid bill sent without a date keeps its stored one.
func (s *BillService) Update(ctx context.Context, id string, input BillInput) (*BillView, error) {
	keepDate := input.Status == domain.BillPaid &&
		(input.PaymentDate == nil || strings.TrimSpace(*input.PaymentDate) == "")
	if err := s.normalize(&input); err != nil {
		return nil, err
	}
	current, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if keepDate && current.PaymentDate != nil {
		input.PaymentDate = current.PaymentDate
	}

	row := &models.Bill{
		ID:          id,
		Description: input.Description,
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		Category:    input.Category,
		Recurring:   input.Recurring,
		Status:      string(input.Status),
		PaymentDate: input.PaymentDate,
		Note:        input.Note,
	}
	if err := s.billRepo.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update bill: %w", err)
	}
	return s.GetByID(ctx, id)
}

// MarkPaid moves a pending bill to paid. An empty date means today.
func (s *BillService) MarkPaid(ctx context.Context, id string, paymentDate string) (*BillView, error) {
	paymentDate = strings.TrimSpace(paymentDate)
	if paymentDate == "" {
		paymentDate = s.now.today()
	}
	if _, err := domain.ParseDate(paymentDate, s.now().Location()); err != nil {
		return nil, domain.Invalid("payment_date", "must be a YYYY-MM-DD date")
	}

	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.BillStatus(row.Status) == domain.BillPaid {
		return nil, domain.ErrBillAlreadyPaid
	}

	if err := s.billRepo.MarkPaid(ctx, id, paymentDate); err != nil {
		return nil, fmt.Errorf("mark bill paid: %w", err)
	}
	slog.InfoContext(ctx, "bill paid", "bill_id", id, "payment_date", paymentDate)
	return s.GetByID(ctx, id)
}

// Delete removes a bill
func (s *BillService) Delete(ctx context.Context, id string) error {
	if err := s.billRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBillNotFound
		}
		return fmt.Errorf("delete bill: %w", err)
	}
	slog.InfoContext(ctx, "bill deleted", "bill_id", id)
	return nil
}

func (s *BillService) getRow(ctx context.Context, id string) (*models.Bill, error) {
	row, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return row, nil
}

func (s *BillService) view(b domain.Bill) *BillView {
	return &BillView{Bill: b, Overdue: b.Overdue(s.now())}
}

package repositories

import (
	"context"
	"time"

	"fee-ledger/internal/adapters/persistence/models"
)

// ClientRepository defines client repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	NextID(ctx context.Context) (string, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client, feeChange *models.FeeChange) error
	SetInactive(ctx context.Context, id string, reason string, at time.Time) error
	ClearInactive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (int64, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByTaxID(ctx context.Context, taxID, excludeID string) (bool, error)
}

// PaymentFilter narrows a payment listing
type PaymentFilter struct {
	ClientID string
	// DateFrom keeps payments dated on or after it (YYYY-MM-DD)
	DateFrom string
	// DateTo keeps payments dated on or before it (YYYY-MM-DD)
	DateTo string
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*models.Payment, error)
	ListPage(ctx context.Context, filter PaymentFilter, offset, limit int) ([]*models.Payment, int64, error)
	Delete(ctx context.Context, id string) error
}

// BillRepository defines bill repository interface
type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, id string) (*models.Bill, error)
	List(ctx context.Context) ([]*models.Bill, error)
	Update(ctx context.Context, bill *models.Bill) error
	MarkPaid(ctx context.Context, id string, paymentDate string) error
	Delete(ctx context.Context, id string) error
}

package repositories

import (
	"context"

	"fee-ledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface.
// Payments are append-only; there is no update.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List lists payments matching filter, oldest payment date first
func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.filtered(ctx, filter).
		Order("payment_date ASC, registered_at ASC").
		Find(&payments).Error
	return payments, err
}

// ListPage lists a page of payments, newest payment date first
func (r *paymentRepository) ListPage(ctx context.Context, filter PaymentFilter, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.filtered(ctx, filter).
		Order("payment_date DESC, registered_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error

	return payments, total, err
}

// Delete hard deletes a payment
func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Payment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *paymentRepository) filtered(ctx context.Context, filter PaymentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.DateFrom != "" {
		q = q.Where("payment_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("payment_date <= ?", filter.DateTo)
	}
	return q
}

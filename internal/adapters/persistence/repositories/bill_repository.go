package repositories

import (
	"context"

	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/core/domain"

	"gorm.io/gorm"
)

// billRepository implements BillRepository interface
type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

// Create creates a new bill
func (r *billRepository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

// GetByID gets a bill by ID
func (r *billRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// List lists every bill, earliest due date first
func (r *billRepository) List(ctx context.Context) ([]*models.Bill, error) {
	var bills []*models.Bill
	err := r.db.WithContext(ctx).Order("due_date ASC, created_at ASC").Find(&bills).Error
	return bills, err
}

// Update replaces the editable columns of a bill
func (r *billRepository) Update(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Model(&models.Bill{}).
		Where("id = ?", bill.ID).
		Select("description", "amount", "due_date", "category", "recurring", "status", "payment_date", "note").
		Updates(bill).Error
}

// MarkPaid sets status and payment date in a single statement
func (r *billRepository) MarkPaid(ctx context.Context, id string, paymentDate string) error {
	return r.db.WithContext(ctx).Model(&models.Bill{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(domain.BillPaid),
			"payment_date": paymentDate,
		}).Error
}

// Delete hard deletes a bill
func (r *billRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bill{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fee-ledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client together with its fee history rows
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// NextID returns max(id)+1 zero-padded to 3 digits, so ids are never reused
// after a deletion of a lower one
func (r *clientRepository) NextID(ctx context.Context) (string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Pluck("id", &ids).Error; err != nil {
		return "", err
	}

	max := 0
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%03d", max+1), nil
}

// GetByID gets a client by ID with its fee history
func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("FeeHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List lists every client ordered by ID
func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.WithContext(ctx).
		Preload("FeeHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("id ASC").
		Find(&clients).Error
	return clients, err
}

// Update saves the client columns and appends feeChange when given
func (r *clientRepository) Update(ctx context.Context, client *models.Client, feeChange *models.FeeChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Client{}).
			Where("id = ?", client.ID).
			Select("name", "tax_id", "address", "tax_regime", "email", "phone", "monthly_fee", "partners", "modules").
			Updates(client)
		if res.Error != nil {
			return res.Error
		}

		if feeChange != nil {
			feeChange.ClientID = client.ID
			if err := tx.Create(feeChange).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetInactive marks a client inactive with a reason
func (r *clientRepository) SetInactive(ctx context.Context, id string, reason string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"inactive":            true,
			"inactivation_reason": reason,
			"inactivated_at":      at,
		}).Error
}

// ClearInactive reactivates a client and clears the inactivation fields
func (r *clientRepository) ClearInactive(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"inactive":            false,
			"inactivation_reason": nil,
			"inactivated_at":      nil,
		}).Error
}

// Delete removes a client, its fee history and every payment it owns.
// It returns the number of payments removed.
func (r *clientRepository) Delete(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Client{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("client_id = ?", id).Delete(&models.FeeChange{}).Error; err != nil {
			return err
		}

		res = tx.Where("client_id = ?", id).Delete(&models.Payment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	return removed, err
}

// ExistsByEmail checks if another client already uses email
func (r *clientRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

// ExistsByTaxID checks if another client already uses taxID
func (r *clientRepository) ExistsByTaxID(ctx context.Context, taxID, excludeID string) (bool, error) {
	return r.exists(ctx, "tax_id = ?", taxID, excludeID)
}

func (r *clientRepository) exists(ctx context.Context, cond string, value string, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Client{}).Where(cond, value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

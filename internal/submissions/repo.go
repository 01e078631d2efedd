package submissions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shery7378/multifront/pkg/db/models"
)

// Repository persists order submission rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) CreateBatch(ctx context.Context, rows []models.OrderSubmission) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]models.OrderSubmission, error) {
	var rows []models.OrderSubmission
	err := r.db.WithContext(ctx).
		Where("checkout_id = ?", checkoutID).
		Order("store_id ASC").
		Find(&rows).Error
	return rows, err
}

// ListOrphaned returns created orders from failed checkouts since the given time, oldest first.
func (r *Repository) ListOrphaned(ctx context.Context, since time.Time, limit int) ([]models.OrderSubmission, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.OrderSubmission
	err := r.db.WithContext(ctx).
		Where("orphaned = ? AND created_at >= ?", true, since).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

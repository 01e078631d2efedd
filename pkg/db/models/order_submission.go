package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shery7378/multifront/pkg/enums"
)

// OrderSubmission is one store's order request within a checkout attempt.
type OrderSubmission struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	CheckoutID   uuid.UUID              `gorm:"column:checkout_id;type:uuid;not null"`
	SessionID    string                 `gorm:"column:session_id;not null"`
	UserID       *string                `gorm:"column:user_id"`
	StoreID      string                 `gorm:"column:store_id;not null"`
	Status       enums.SubmissionStatus `gorm:"column:status;not null"`
	HTTPStatus   *int                   `gorm:"column:http_status"`
	OrderID      *string                `gorm:"column:order_id"`
	RedirectURL  *string                `gorm:"column:redirect_url"`
	ErrorMessage *string                `gorm:"column:error_message"`
	Total        decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	// Orphaned marks a created order whose checkout failed as a whole.
	Orphaned  bool      `gorm:"column:orphaned;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrderSubmission) TableName() string {
	return "order_submissions"
}

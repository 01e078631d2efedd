package submissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shery7378/multifront/pkg/db/models"
	"github.com/shery7378/multifront/pkg/enums"
	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Entry is one store's outcome inside a checkout attempt.
type Entry struct {
	StoreID     string
	HTTPStatus  int
	OrderID     *string
	RedirectURL string
	Err         error
	Total       decimal.Decimal
}

// Status classifies the entry for the ledger.
func (e Entry) Status() enums.SubmissionStatus {
	switch {
	case e.Err != nil:
		return enums.SubmissionStatusFailed
	case e.HTTPStatus == 201:
		return enums.SubmissionStatusCreated
	default:
		return enums.SubmissionStatusRejected
	}
}

// Attempt groups every store submission of one checkout.
type Attempt struct {
	CheckoutID uuid.UUID
	SessionID  string
	UserID     string
	Entries    []Entry
}

// Succeeded reports whether every entry created an order.
func (a Attempt) Succeeded() bool {
	if len(a.Entries) == 0 {
		return false
	}
	for _, e := range a.Entries {
		if e.Status() != enums.SubmissionStatusCreated {
			return false
		}
	}
	return true
}

// Ledger records checkout attempts so partial failures can be reconciled.
type Ledger interface {
	Record(ctx context.Context, attempt Attempt) error
	ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]models.OrderSubmission, error)
}

type ledger struct {
	repo *Repository
	tx   txRunner
}

func NewLedger(repo *Repository, tx txRunner) (Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &ledger{repo: repo, tx: tx}, nil
}

// Record writes one row per entry in a single transaction. Created orders of a
// failed attempt are flagged as orphaned.
func (l *ledger) Record(ctx context.Context, attempt Attempt) error {
	if attempt.CheckoutID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout id required")
	}
	rows := toRows(attempt)
	err := l.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return l.repo.WithTx(tx).CreateBatch(ctx, rows)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order submissions")
	}
	return nil
}

func (l *ledger) ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]models.OrderSubmission, error) {
	rows, err := l.repo.ListByCheckout(ctx, checkoutID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order submissions")
	}
	return rows, nil
}

func toRows(attempt Attempt) []models.OrderSubmission {
	failed := !attempt.Succeeded()
	var userID *string
	if trimmed := strings.TrimSpace(attempt.UserID); trimmed != "" {
		userID = &trimmed
	}

	rows := make([]models.OrderSubmission, 0, len(attempt.Entries))
	for _, e := range attempt.Entries {
		status := e.Status()
		row := models.OrderSubmission{
			ID:          uuid.New(),
			CheckoutID:  attempt.CheckoutID,
			SessionID:   attempt.SessionID,
			UserID:      userID,
			StoreID:     e.StoreID,
			Status:      status,
			OrderID:     e.OrderID,
			RedirectURL: optional(e.RedirectURL),
			Total:       e.Total,
			Orphaned:    failed && status == enums.SubmissionStatusCreated,
		}
		if e.Err == nil {
			code := e.HTTPStatus
			row.HTTPStatus = &code
		} else {
			row.ErrorMessage = optional(e.Err.Error())
		}
		rows = append(rows, row)
	}
	return rows
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classfee-api/internal/models"
)

const paymentColumns = `id, student_id, class_id, amount, month, year, status, payment_date, created_at`

// PaymentRepository persists generated fee line-items.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments matching the filter in creation order.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		conditions = append(conditions, fmt.Sprintf("month = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Status != "" && filter.Status != models.PaymentStatusAll {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM payments WHERE %s ORDER BY created_at ASC, id ASC", paymentColumns, strings.Join(conditions, " AND "))
	payments := make([]models.Payment, 0)
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByID returns a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE id = $1", paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

// CreateBatch inserts all payments in one transaction. IDs and creation times are assigned in place.
func (r *PaymentRepository) CreateBatch(ctx context.Context, payments []models.Payment) (err error) {
	if len(payments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const query = `INSERT INTO payments (id, student_id, class_id, amount, month, year, status, payment_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range payments {
		p := &payments[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			// keeps input order under ORDER BY created_at at microsecond precision
			p.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		}
		if _, err = tx.ExecContext(ctx, query, p.ID, p.StudentID, p.ClassID, p.Amount, p.Month, p.Year, p.Status, p.PaymentDate, p.CreatedAt); err != nil {
			return fmt.Errorf("insert payment for student %s: %w", p.StudentID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit payment batch: %w", err)
	}
	return nil
}

// UpdateStatus sets the payment status and derived payment date, returning the updated record.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.Payment, error) {
	var derived models.Payment
	derived.ApplyStatus(status, at)

	query := fmt.Sprintf("UPDATE payments SET status = $1, payment_date = $2 WHERE id = $3 RETURNING %s", paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, derived.Status, derived.PaymentDate, id); err != nil {
		if err = notFound(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return &payment, nil
}

package inmem

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
)

// PaymentRepository serves payments from the in-memory table.
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository constructs a PaymentRepository over db.
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	t := r.db.payments
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	payments := make([]models.Payment, 0, len(t.rows))
	for _, p := range t.rows {
		if filter.Matches(p) {
			payments = append(payments, clonePayment(p))
		}
	}
	return payments, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	t := r.db.payments
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if i := t.index(id); i >= 0 {
		payment := clonePayment(t.rows[i])
		return &payment, nil
	}
	return nil, repository.ErrNotFound
}

// CreateBatch assigns IDs and creation times, then appends the whole batch under one lock.
func (r *PaymentRepository) CreateBatch(ctx context.Context, payments []models.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t := r.db.payments
	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := r.db.now()
	staged := make([]models.Payment, len(payments))
	for i := range payments {
		if payments[i].ID == "" {
			payments[i].ID = uuid.NewString()
		}
		if payments[i].CreatedAt.IsZero() {
			payments[i].CreatedAt = now
		}
		staged[i] = clonePayment(payments[i])
	}
	t.rows = append(t.rows, staged...)
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.Payment, error) {
	t := r.db.payments
	t.mutex.Lock()
	defer t.mutex.Unlock()

	i := t.index(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	t.rows[i].ApplyStatus(status, at)
	payment := clonePayment(t.rows[i])
	return &payment, nil
}

func (t *paymentTable) index(id string) int {
	for i := range t.rows {
		if t.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func clonePayment(p models.Payment) models.Payment {
	if p.PaymentDate != nil {
		date := *p.PaymentDate
		p.PaymentDate = &date
	}
	return p
}

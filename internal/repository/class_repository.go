package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classfee-api/internal/models"
)

const classColumns = `id, name, fee, to_char(start_date, 'YYYY-MM-DD') AS start_date, created_at`

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns every class in creation order.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes ORDER BY created_at ASC, id ASC", classColumns)
	classes := make([]models.Class, 0)
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, notFound(err)
	}
	return &class, nil
}

// Create persists a class record, assigning its ID and creation time.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO classes (id, name, fee, start_date, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, class.ID, class.Name, class.Fee, class.StartDate, class.CreatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies the editable class fields.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET name = $1, fee = $2, start_date = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, class.Name, class.Fee, class.StartDate, class.ID)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

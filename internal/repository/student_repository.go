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

const studentColumns = `id, name, parent_name, phone_number, is_active, class_id, class_fee, created_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters in creation order.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY created_at ASC, id ASC", studentColumns, strings.Join(conditions, " AND "))
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID returns a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, notFound(err)
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO students (id, name, parent_name, phone_number, is_active, class_id, class_fee, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		student.ID, student.Name, student.ParentName, student.PhoneNumber,
		student.IsActive, student.ClassID, student.ClassFee, student.CreatedAt,
	); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update replaces the mutable student fields, including the class fee snapshot.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET name = $1, parent_name = $2, phone_number = $3, is_active = $4, class_id = $5, class_fee = $6 WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		student.Name, student.ParentName, student.PhoneNumber,
		student.IsActive, student.ClassID, student.ClassFee, student.ID,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

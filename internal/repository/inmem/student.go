package inmem

import (
	"context"

	"github.com/google/uuid"

	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
)

// StudentRepository serves students from the in-memory table.
type StudentRepository struct {
	db *DB
}

// NewStudentRepository constructs a StudentRepository over db.
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	t := r.db.students
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	students := make([]models.Student, 0, len(t.rows))
	for _, s := range t.rows {
		if filter.Matches(s) {
			students = append(students, s)
		}
	}
	return students, nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	t := r.db.students
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if i := t.index(id); i >= 0 {
		student := t.rows[i]
		return &student, nil
	}
	return nil, repository.ErrNotFound
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	t := r.db.students
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = r.db.now()
	}
	t.rows = append(t.rows, *student)
	return nil
}

// Update replaces every mutable field including the class fee snapshot.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	t := r.db.students
	t.mutex.Lock()
	defer t.mutex.Unlock()

	i := t.index(student.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	student.CreatedAt = t.rows[i].CreatedAt
	t.rows[i] = *student
	return nil
}

func (t *studentTable) index(id string) int {
	for i := range t.rows {
		if t.rows[i].ID == id {
			return i
		}
	}
	return -1
}

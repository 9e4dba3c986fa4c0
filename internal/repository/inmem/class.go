package inmem

import (
	"context"

	"github.com/google/uuid"

	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
)

// ClassRepository serves classes from the in-memory table.
type ClassRepository struct {
	db *DB
}

// NewClassRepository constructs a ClassRepository over db.
func NewClassRepository(db *DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	t := r.db.classes
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	classes := make([]models.Class, len(t.rows))
	copy(classes, t.rows)
	return classes, nil
}

func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	t := r.db.classes
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if i := t.index(id); i >= 0 {
		class := t.rows[i]
		return &class, nil
	}
	return nil, repository.ErrNotFound
}

func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	t := r.db.classes
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = r.db.now()
	}
	t.rows = append(t.rows, *class)
	return nil
}

// Update replaces the editable fields; ID and CreatedAt are preserved.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	t := r.db.classes
	t.mutex.Lock()
	defer t.mutex.Unlock()

	i := t.index(class.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	stored := &t.rows[i]
	stored.Name = class.Name
	stored.Fee = class.Fee
	stored.StartDate = class.StartDate
	*class = *stored
	return nil
}

func (t *classTable) index(id string) int {
	for i := range t.rows {
		if t.rows[i].ID == id {
			return i
		}
	}
	return -1
}

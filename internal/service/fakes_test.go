package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

type fakeClassRepo struct {
	classes []models.Class
	calls   int
	err     error
}

func (f *fakeClassRepo) List(ctx context.Context) ([]models.Class, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Class(nil), f.classes...), nil
}

func (f *fakeClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.classes {
		if c.ID == id {
			class := c
			return &class, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	class.ID = fmt.Sprintf("class-%d", len(f.classes)+1)
	class.CreatedAt = time.Now().UTC()
	f.classes = append(f.classes, *class)
	return nil
}

func (f *fakeClassRepo) Update(ctx context.Context, class *models.Class) error {
	f.calls++
	for i := range f.classes {
		if f.classes[i].ID == class.ID {
			f.classes[i] = *class
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeStudentRepo struct {
	students   []models.Student
	lastFilter models.StudentFilter
	calls      int
	err        error
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.calls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Student, 0)
	for _, s := range f.students {
		if filter.Matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.students {
		if s.ID == id {
			student := s
			return &student, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.calls++
	student.ID = fmt.Sprintf("student-%d", len(f.students)+1)
	student.CreatedAt = time.Now().UTC()
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.calls++
	for i := range f.students {
		if f.students[i].ID == student.ID {
			f.students[i] = *student
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakePaymentRepo struct {
	payments   []models.Payment
	lastFilter models.PaymentFilter
	calls      int
	err        error
}

func (f *fakePaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	f.calls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Payment, 0)
	for _, p := range f.payments {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.payments {
		if p.ID == id {
			payment := p
			return &payment, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePaymentRepo) CreateBatch(ctx context.Context, payments []models.Payment) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i := range payments {
		payments[i].ID = fmt.Sprintf("payment-%d", len(f.payments)+1)
		payments[i].CreatedAt = time.Now().UTC()
		f.payments = append(f.payments, payments[i])
	}
	return nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.Payment, error) {
	f.calls++
	for i := range f.payments {
		if f.payments[i].ID == id {
			f.payments[i].ApplyStatus(status, at)
			payment := f.payments[i]
			return &payment, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeCacheRepo struct {
	entries map[string][]byte
	deleted []string
	gets    int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	f.gets++
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	for key := range f.entries {
		delete(f.entries, key)
	}
	return nil
}

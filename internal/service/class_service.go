package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
	"github.com/noah-isme/classfee-api/internal/validation"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
}

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// ClassService coordinates class operations.
type ClassService struct {
	repo      classRepository
	students  studentLister
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, students studentLister, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, students: students, validator: validate, cache: cache, logger: logger}
}

// List returns every class in creation order.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return classes, nil
}

// Get returns a single class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	return findClass(ctx, s.repo, id)
}

// Create validates and stores a new class.
func (s *ClassService) Create(ctx context.Context, req dto.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	fee, _ := req.Fee.Float64()

	class := &models.Class{
		Name:      strings.TrimSpace(req.Name),
		Fee:       fee,
		StartDate: req.StartDate,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Internal(err, "failed to create class")
	}

	s.cache.invalidateDashboard(ctx)
	s.logger.Info("class created", zap.String("class_id", class.ID), zap.Float64("fee", class.Fee))
	return class, nil
}

// Update replaces the editable fields of a class. Student fee snapshots are left untouched.
func (s *ClassService) Update(ctx context.Context, id string, req dto.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	fee, _ := req.Fee.Float64()

	class, err := findClass(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	class.Name = strings.TrimSpace(req.Name)
	class.Fee = fee
	class.StartDate = req.StartDate

	if err := s.repo.Update(ctx, class); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to update class")
	}

	s.cache.invalidateDashboard(ctx)
	s.logger.Info("class updated", zap.String("class_id", class.ID))
	return class, nil
}

// EligibleStudents returns the active students of a class, the candidate pool for fee generation.
func (s *ClassService) EligibleStudents(ctx context.Context, classID string) ([]models.Student, error) {
	if _, err := findClass(ctx, s.repo, classID); err != nil {
		return nil, err
	}
	active := true
	students, err := s.students.List(ctx, models.StudentFilter{ClassID: classID, Active: &active})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list eligible students")
	}
	return students, nil
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

func findClass(ctx context.Context, repo classFinder, id string) (*models.Class, error) {
	class, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}

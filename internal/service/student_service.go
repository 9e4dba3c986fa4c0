package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
	"github.com/noah-isme/classfee-api/internal/validation"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

// StudentService manages the student roster.
type StudentService struct {
	repo      studentRepository
	classes   classFinder
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, classes classFinder, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, validator: validate, cache: cache, logger: logger}
}

// List returns students matching the optional class and active filters.
func (s *StudentService) List(ctx context.Context, query dto.StudentListQuery) ([]models.Student, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	filter := models.StudentFilter{ClassID: strings.TrimSpace(query.ClassID)}
	if query.Active != "" {
		active, _ := strconv.ParseBool(query.Active)
		filter.Active = &active
	}

	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	return students, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}

// Create enrolls a student, snapshotting the class fee at enrollment time.
func (s *StudentService) Create(ctx context.Context, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	class, err := findClass(ctx, s.classes, strings.TrimSpace(req.ClassID))
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:        strings.TrimSpace(req.Name),
		ParentName:  strings.TrimSpace(req.ParentName),
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.Active(),
		ClassID:     class.ID,
		ClassFee:    class.Fee,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to create student")
	}

	s.cache.invalidateDashboard(ctx)
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("class_id", student.ClassID))
	return student, nil
}

// Update replaces the editable fields of a student. The fee snapshot is retaken only when the class changes.
func (s *StudentService) Update(ctx context.Context, id string, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	classID := strings.TrimSpace(req.ClassID)
	if classID != student.ClassID {
		class, err := findClass(ctx, s.classes, classID)
		if err != nil {
			return nil, err
		}
		student.ClassID = class.ID
		student.ClassFee = class.Fee
	}
	student.Name = strings.TrimSpace(req.Name)
	student.ParentName = strings.TrimSpace(req.ParentName)
	student.PhoneNumber = req.PhoneNumber
	student.IsActive = req.Active()

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to update student")
	}

	s.cache.invalidateDashboard(ctx)
	s.logger.Info("student updated", zap.String("student_id", student.ID))
	return student, nil
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
	"github.com/noah-isme/classfee-api/internal/validation"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	CreateBatch(ctx context.Context, payments []models.Payment) error
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.Payment, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// PaymentService runs the fee generation and payment status workflows.
type PaymentService struct {
	payments  paymentRepository
	classes   classFinder
	students  studentFinder
	validator *validation.Validator
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(payments paymentRepository, classes classFinder, students studentFinder, validate *validation.Validator, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		payments:  payments,
		classes:   classes,
		students:  students,
		validator: validate,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the payments matching query together with their totals.
func (s *PaymentService) List(ctx context.Context, query dto.PaymentListQuery) ([]models.Payment, dto.PaymentListSummary, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, dto.PaymentListSummary{}, err
	}
	payments, err := s.payments.List(ctx, paymentFilter(query))
	if err != nil {
		return nil, dto.PaymentListSummary{}, appErrors.Internal(err, "failed to list payments")
	}
	return payments, SummarizePayments(payments), nil
}

// GenerateMonthlyFees creates one unpaid payment per selected student, in request order.
// The amount is the student's fee snapshot, or the class fee when the student record is missing.
// Generation is not idempotent: repeating a period produces another set of payments.
func (s *PaymentService) GenerateMonthlyFees(ctx context.Context, req dto.MonthlyFeeRequest) ([]models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	month, _ := strconv.Atoi(strings.TrimSpace(req.Month))
	year, _ := strconv.Atoi(strings.TrimSpace(req.Year))

	class, err := findClass(ctx, s.classes, strings.TrimSpace(req.ClassID))
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0, len(req.StudentIDs))
	for _, studentID := range req.StudentIDs {
		amount, err := s.feeFor(ctx, studentID, class)
		if err != nil {
			return nil, err
		}
		payments = append(payments, models.Payment{
			StudentID: studentID,
			ClassID:   class.ID,
			Amount:    amount,
			Month:     month,
			Year:      year,
			Status:    models.PaymentStatusUnpaid,
		})
	}

	if err := s.payments.CreateBatch(ctx, payments); err != nil {
		return nil, appErrors.Internal(err, "failed to create payments")
	}

	s.metrics.RecordPaymentsGenerated(len(payments))
	s.cache.invalidateDashboard(ctx)
	s.logger.Info("monthly fees generated",
		zap.String("class_id", class.ID),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("count", len(payments)),
	)
	return payments, nil
}

func (s *PaymentService) feeFor(ctx context.Context, studentID string, class *models.Class) (float64, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err == nil {
		return student.ClassFee, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("student not found, billing class fee", zap.String("student_id", studentID), zap.String("class_id", class.ID))
		return class.Fee, nil
	}
	return 0, appErrors.Internal(err, "failed to load student")
}

// Get returns a single payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Internal(err, "failed to load payment")
	}
	return payment, nil
}

// UpdateStatus moves a payment to paid or unpaid. Paid stamps the payment date with the current time.
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, req dto.PaymentStatusRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	status := models.PaymentStatus(req.Status)

	payment, err := s.payments.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Internal(err, "failed to update payment status")
	}

	s.metrics.RecordStatusChange(status)
	s.cache.invalidateDashboard(ctx)
	s.logger.Info("payment status updated", zap.String("payment_id", id), zap.String("status", string(status)))
	return payment, nil
}

// paymentFilter converts a validated query into a store filter.
func paymentFilter(query dto.PaymentListQuery) models.PaymentFilter {
	filter := models.PaymentFilter{
		ClassID: strings.TrimSpace(query.ClassID),
		Status:  models.PaymentStatus(query.Status),
	}
	filter.Month, _ = strconv.Atoi(strings.TrimSpace(query.Month))
	filter.Year, _ = strconv.Atoi(strings.TrimSpace(query.Year))
	return filter
}

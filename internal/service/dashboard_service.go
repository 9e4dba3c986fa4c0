package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

type classLister interface {
	List(ctx context.Context) ([]models.Class, error)
}

type paymentLister interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Classes  classLister
	Students studentLister
	Payments paymentLister
	Cache    *CacheService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// DashboardService composes the admin dashboard from the current collections.
type DashboardService struct {
	classes  classLister
	students studentLister
	payments paymentLister
	cache    *CacheService
	logger   *zap.Logger
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		classes:  params.Classes,
		students: params.Students,
		payments: params.Payments,
		cache:    params.Cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// Summary returns the dashboard payload and whether it was served from cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	key := dashboardKey(s.cache.Generation())

	var cached dto.DashboardSummary
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("dashboard cache unavailable, recomputing", zap.Error(err))
	}
	if hit {
		return &cached, true, nil
	}

	summary, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardSummary, error) {
	var (
		classes  []models.Class
		students []models.Student
		payments []models.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classes, err = s.classes.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		students, err = s.students.List(gctx, models.StudentFilter{})
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.payments.List(gctx, models.PaymentFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Internal(err, "failed to load dashboard data")
	}

	total, active := CountStudents(students)
	return &dto.DashboardSummary{
		TotalStudents:    total,
		ActiveStudents:   active,
		TotalClasses:     len(classes),
		TotalCollected:   TotalByStatus(payments, models.PaymentStatusPaid),
		TotalPending:     TotalByStatus(payments, models.PaymentStatusUnpaid),
		StatusCounts:     CountByStatus(payments),
		Monthly:          MonthlyTotals(payments),
		StudentsPerClass: StudentsPerClass(classes, students),
	}, nil
}

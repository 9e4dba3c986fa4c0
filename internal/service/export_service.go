package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/validation"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
	"github.com/noah-isme/classfee-api/pkg/export"
	"github.com/noah-isme/classfee-api/pkg/format"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var ledgerHeaders = []string{"Student", "Class", "Period", "Amount", "Status", "Payment Date"}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered payment ledger ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the filtered payment ledger as CSV or PDF.
type ExportService struct {
	classes   classLister
	students  studentLister
	payments  paymentLister
	validator *validation.Validator
	formatter *format.Formatter
	csv       renderer
	pdf       renderer
	logger    *zap.Logger
	now       func() time.Time
}

// ExportServiceParams groups constructor dependencies. Nil renderers default to the pkg/export implementations.
type ExportServiceParams struct {
	Classes      classLister
	Students     studentLister
	Payments     paymentLister
	Validator    *validation.Validator
	CurrencyCode string
	CSV          renderer
	PDF          renderer
	Logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	svc := &ExportService{
		classes:   params.Classes,
		students:  params.Students,
		payments:  params.Payments,
		validator: params.Validator,
		formatter: format.NewFormatter(params.CurrencyCode),
		csv:       params.CSV,
		pdf:       params.PDF,
		logger:    params.Logger,
		now:       time.Now,
	}
	if svc.validator == nil {
		svc.validator = validation.New()
	}
	if svc.csv == nil {
		svc.csv = export.NewCSVExporter()
	}
	if svc.pdf == nil {
		svc.pdf = export.NewPDFExporter()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Payments renders the payments matching query. The format defaults to CSV.
func (s *ExportService) Payments(ctx context.Context, query dto.PaymentExportQuery) (*ExportFile, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	formatName := strings.ToLower(query.Format)
	if formatName == "" {
		formatName = ExportFormatCSV
	}

	dataset, err := s.ledger(ctx, paymentFilter(query.ListQuery()))
	if err != nil {
		return nil, err
	}

	file := &ExportFile{Filename: fmt.Sprintf("payments_%s.%s", s.now().UTC().Format("20060102_150405"), formatName)}
	switch formatName {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Data, err = s.pdf.Render(dataset)
	default:
		file.ContentType = "text/csv"
		file.Data, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render payment export")
	}

	s.logger.Info("payments exported", zap.String("format", formatName), zap.Int("rows", len(dataset.Rows)))
	return file, nil
}

func (s *ExportService) ledger(ctx context.Context, filter models.PaymentFilter) (export.Dataset, error) {
	payments, err := s.payments.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to list payments")
	}
	classes, err := s.classes.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to list classes")
	}
	students, err := s.students.List(ctx, models.StudentFilter{})
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to list students")
	}

	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}
	studentNames := make(map[string]string, len(students))
	for _, st := range students {
		studentNames[st.ID] = st.Name
	}

	rows := make([]map[string]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, map[string]string{
			"Student":      nameOr(studentNames, p.StudentID),
			"Class":        nameOr(classNames, p.ClassID),
			"Period":       format.PeriodLabel(p.Month, p.Year),
			"Amount":       s.formatter.Currency(p.Amount),
			"Status":       string(p.Status),
			"Payment Date": format.Date(p.PaymentDate),
		})
	}

	summary := SummarizePayments(payments)
	return export.Dataset{
		Title:   fmt.Sprintf("Payment Ledger (%s)", s.formatter.Code()),
		Headers: ledgerHeaders,
		Rows:    rows,
		Footer: []map[string]string{
			{"Student": "Total Collected", "Amount": s.formatter.Currency(summary.Collected)},
			{"Student": "Total Outstanding", "Amount": s.formatter.Currency(summary.Outstanding)},
		},
	}, nil
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

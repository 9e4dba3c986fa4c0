package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/repository/inmem"
	"github.com/noah-isme/classfee-api/internal/service"
	"github.com/noah-isme/classfee-api/internal/validation"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type testServer struct {
	router  *gin.Engine
	metrics *service.MetricsService
}

func newTestServer(t *testing.T, seed bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := inmem.Open()
	if seed {
		inmem.Seed(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	}
	classes := inmem.NewClassRepository(db)
	students := inmem.NewStudentRepository(db)
	payments := inmem.NewPaymentRepository(db)

	v := validation.New()
	metrics := service.NewMetricsService()

	classSvc := service.NewClassService(classes, students, v, nil, nil)
	studentSvc := service.NewStudentService(students, classes, v, nil, nil)
	paymentSvc := service.NewPaymentService(payments, classes, students, v, nil, metrics, nil)
	exportSvc := service.NewExportService(service.ExportServiceParams{Classes: classes, Students: students, Payments: payments, Validator: v})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{Classes: classes, Students: students, Payments: payments})

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Classes:   NewClassHandler(classSvc),
		Students:  NewStudentHandler(studentSvc),
		Payments:  NewPaymentHandler(paymentSvc, exportSvc),
		Dashboard: NewDashboardHandler(dashboardSvc),
		Metrics:   NewMetricsHandler(metrics, nil),
	})
	return &testServer{router: router, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope responseEnvelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func decode(t *testing.T, raw json.RawMessage, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dest))
}

func TestClassEndpoints(t *testing.T) {
	srv := newTestServer(t, false)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/classes", `{"name":"Physics","fee":"200","startDate":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	decode(t, env.Data, &created)
	assert.Equal(t, 200.0, created["fee"])
	assert.NotEmpty(t, created["id"])
	id := created["id"].(string)

	rec, env = srv.do(t, http.MethodPut, "/api/v1/classes/"+id, map[string]interface{}{"name": "Physics II", "fee": 220, "startDate": "2024-02-01"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]interface{}
	decode(t, env.Data, &updated)
	assert.Equal(t, "Physics II", updated["name"])

	rec, env = srv.do(t, http.MethodGet, "/api/v1/classes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "class not found", env.Error.Message)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/classes", `{"name":"","fee":-5,"startDate":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "Fee must be a positive number", env.Error.Fields["fee"])

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/classes", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var classes []map[string]interface{}
	decode(t, env.Data, &classes)
	assert.Len(t, classes, 1)
}

func TestStudentEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"name": "Amy Lee", "parentName": "Tom Lee", "phoneNumber": "5551234567", "classId": "class2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var student map[string]interface{}
	decode(t, env.Data, &student)
	assert.Equal(t, 180.0, student["classFee"])
	assert.Equal(t, true, student["isActive"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"name": "Amy Lee", "parentName": "Tom Lee", "phoneNumber": "555", "classId": "class2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Phone number must be 10 digits", env.Error.Fields["phoneNumber"])

	rec, env = srv.do(t, http.MethodGet, "/api/v1/students?classId=class1&active=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inactive []map[string]interface{}
	decode(t, env.Data, &inactive)
	require.Len(t, inactive, 1)
	assert.Equal(t, "student4", inactive[0]["id"])

	rec, env = srv.do(t, http.MethodGet, "/api/v1/classes/class1/eligible-students", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var eligible []map[string]interface{}
	decode(t, env.Data, &eligible)
	require.Len(t, eligible, 1)
	assert.Equal(t, "student1", eligible[0]["id"])
}

func TestPaymentWorkflowEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/payments/monthly-fees", map[string]interface{}{
		"classId": "class1", "month": "5", "year": "2024", "studentIds": []string{"student1", "student4"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created []map[string]interface{}
	decode(t, env.Data, &created)
	require.Len(t, created, 2)
	assert.Equal(t, "student1", created[0]["studentId"])
	assert.Equal(t, "unpaid", created[0]["status"])
	assert.Nil(t, created[0]["paymentDate"])
	paymentID := created[0]["id"].(string)

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/payments/"+paymentID+"/status", map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	var paid map[string]interface{}
	decode(t, env.Data, &paid)
	assert.Equal(t, "paid", paid["status"])
	assert.NotNil(t, paid["paymentDate"])

	rec, env = srv.do(t, http.MethodGet, "/api/v1/payments/"+paymentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched map[string]interface{}
	decode(t, env.Data, &fetched)
	assert.Equal(t, "paid", fetched["status"])
	assert.Equal(t, paid["paymentDate"], fetched["paymentDate"])

	rec, env = srv.do(t, http.MethodGet, "/api/v1/payments/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "payment not found", env.Error.Message)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/payments?month=5&year=2024&status=paid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	decode(t, env.Data, &listed)
	require.Len(t, listed, 1)
	summary := env.Meta["summary"].(map[string]interface{})
	assert.Equal(t, 1.0, summary["count"])
	assert.Equal(t, 150.0, summary["collected"])

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/payments?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/payments/nope/status", map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "payment not found", env.Error.Message)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/payments/monthly-fees", map[string]interface{}{
		"classId": "class1", "month": "5", "year": "2024", "studentIds": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "At least one student must be selected", env.Error.Fields["studentIds"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/payments/monthly-fees", map[string]interface{}{
		"classId": "class1", "month": "5", "year": "2024", "studentIds": []string{" "},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "studentIds[0] cannot be blank", env.Error.Fields["studentIds[0]"])

	assert.EqualValues(t, 2, srv.metrics.Snapshot().PaymentsGenerated)
}

func TestPaymentExportEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	rec, _ := srv.do(t, http.MethodGet, "/api/v1/payments/export?status=paid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"payments_")
	assert.Contains(t, rec.Body.String(), "Student,Class,Period,Amount,Status,Payment Date")

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/payments/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/payments/export?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary dto.DashboardSummary
	decode(t, env.Data, &summary)
	assert.Equal(t, 4, summary.TotalStudents)
	assert.Equal(t, 3, summary.ActiveStudents)
	assert.Equal(t, 3, summary.TotalClasses)
	assert.Len(t, summary.StudentsPerClass, 3)
	assert.Equal(t, false, env.Meta["cache_hit"])
}

type fakeDashboardSrv struct {
	summary *dto.DashboardSummary
	hit     bool
	err     error
}

func (f *fakeDashboardSrv) Summary(context.Context) (*dto.DashboardSummary, bool, error) {
	return f.summary, f.hit, f.err
}

func TestDashboardHandlerCacheHitMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{summary: &dto.DashboardSummary{TotalClasses: 7}, hit: true})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, string(envelope.Data), `"totalClasses":7`)
}

func TestDashboardHandlerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReadyReportsFailingChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	handler.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, nil).Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}

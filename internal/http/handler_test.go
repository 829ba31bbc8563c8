package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/sdelka/internal/auth"
	"github.com/nurpe/sdelka/internal/config"
	"github.com/nurpe/sdelka/internal/db"
	"github.com/nurpe/sdelka/internal/http/middleware"
	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
	"github.com/nurpe/sdelka/internal/service"
)

type stubPDF struct{}

func (stubPDF) GenerateCard(card model.WorkCard) ([]byte, error) {
	return []byte("%PDF card " + card.ID.String()), nil
}

type stubCSV struct{}

func (stubCSV) Generate(report model.WorkReport) ([]byte, error) {
	return []byte("total;" + strings.TrimSpace(jsonNumber(report.TotalAmount))), nil
}

func (stubCSV) ContentType() string { return "text/csv; charset=utf-8" }

func jsonNumber(v float64) string {
	data, _ := json.Marshal(v)
	return string(data)
}

type testServer struct {
	router *gin.Engine
	tokens map[model.Role]string
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		HTTP:        config.HTTPConfig{CORSAllowedOrigins: []string{"*"}},
		DB: config.DBConfig{
			Driver:       config.DriverSQLite,
			DSN:          "file:http_" + uuid.NewString() + "?mode=memory&cache=shared",
			MaxOpenConns: 1,
		},
	}
	database, err := db.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	workers := repository.NewWorkerRepository(database)
	workTypes := repository.NewWorkTypeRepository(database)
	products := repository.NewProductRepository(database)
	contracts := repository.NewContractRepository(database)

	handler := NewHandler(Services{
		Workers:   service.NewWorkerService(workers),
		WorkTypes: service.NewWorkTypeService(workTypes),
		Products:  service.NewProductService(products),
		Contracts: service.NewContractService(contracts),
		WorkCards: service.NewWorkCardService(
			repository.NewWorkCardRepository(database), workers, workTypes, products, contracts, stubPDF{},
		),
		Reports: service.NewReportService(repository.NewReportRepository(database), map[model.ReportFormat]service.ReportGenerator{
			model.ReportFormatCSV: stubCSV{},
		}),
	}, zerolog.Nop())

	parser := auth.NewParser("test-secret")
	router := NewRouter(handler, middleware.Auth(parser), cfg.HTTP, cfg.Environment, zerolog.Nop())

	tokens := make(map[model.Role]string)
	for _, role := range []model.Role{model.RoleAdmin, model.RoleAccountant, model.RoleViewer} {
		token, err := parser.GenerateToken(model.Principal{UserID: uuid.New(), Role: role}, time.Hour)
		require.NoError(t, err)
		tokens[role] = token
	}
	return testServer{router: router, tokens: tokens}
}

func (s testServer) do(t *testing.T, role model.Role, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[role])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target), rec.Body.String())
}

func TestHealthzIsPublic(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "", http.MethodGet, "/workers", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/workers", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/workers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/workers", map[string]string{"last_name": "Иванов", "first_name": "Иван"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, model.RoleAccountant, http.MethodPost, "/workers", map[string]string{"last_name": "Иванов", "first_name": "Иван"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestWorkerEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, model.RoleAdmin, http.MethodPost, "/workers", map[string]string{
		"last_name": "Иванов", "first_name": "Иван", "employee_number": "101",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var worker model.Worker
	decode(t, rec, &worker)

	rec = s.do(t, model.RoleAdmin, http.MethodPost, "/workers", map[string]string{
		"last_name": "Петров", "first_name": "Пётр", "employee_number": "101",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, model.RoleAdmin, http.MethodPost, "/workers", map[string]string{"last_name": "Петров"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/workers?q="+url.QueryEscape("ИВАН"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var workers []model.Worker
	decode(t, rec, &workers)
	require.Len(t, workers, 1)
	assert.Equal(t, worker.ID, workers[0].ID)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/workers/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, model.RoleViewer, http.MethodGet, "/workers/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleAdmin, http.MethodPut, "/workers/"+worker.ID.String(), map[string]string{
		"last_name": "Иванов", "first_name": "Игорь",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, model.RoleAdmin, http.MethodDelete, "/workers/"+worker.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWorkCardAndReportFlow(t *testing.T) {
	s := newTestServer(t)

	var worker model.Worker
	rec := s.do(t, model.RoleAdmin, http.MethodPost, "/workers", map[string]string{"last_name": "Иванов", "first_name": "Иван"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &worker)

	var workType model.WorkType
	rec = s.do(t, model.RoleAdmin, http.MethodPost, "/work-types", map[string]interface{}{
		"name": "Сборка", "unit": "штуки", "price": 150, "valid_from": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &workType)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/work-types/price?name="+url.QueryEscape("Сборка")+"&date=2024-02-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var contract model.Contract
	rec = s.do(t, model.RoleAdmin, http.MethodPost, "/contracts", map[string]string{"number": "Д-1", "start_date": "01.01.2024"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &contract)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/work-cards/next-number", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"number":1}`, rec.Body.String())

	rec = s.do(t, model.RoleAccountant, http.MethodPost, "/work-cards", map[string]interface{}{
		"date":        "2024-02-01",
		"contract_id": contract.ID,
		"items":       []map[string]interface{}{{"work_type_id": workType.ID, "quantity": 3}},
		"worker_ids":  []uuid.UUID{worker.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var card model.WorkCard
	decode(t, rec, &card)
	assert.Equal(t, 450.0, card.TotalAmount)
	require.Len(t, card.Workers, 1)
	assert.Equal(t, 450.0, card.Workers[0].Amount)

	rec = s.do(t, model.RoleAccountant, http.MethodPost, "/work-cards", map[string]interface{}{
		"date": "2024-02-01", "items": []interface{}{}, "worker_ids": []uuid.UUID{worker.ID},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/work-cards?worker_id="+worker.ID.String()+"&date_to=2024-02-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cards []model.WorkCard
	decode(t, rec, &cards)
	assert.Len(t, cards, 1)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/work-cards?date_from=bad", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodGet, "/work-cards/"+card.ID.String()+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "work-card-1.pdf")

	rec = s.do(t, model.RoleAdmin, http.MethodDelete, "/workers/"+worker.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/reports", map[string]string{"date_from": "2024-02-01", "date_to": "2024-02-29"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report model.WorkReport
	decode(t, rec, &report)
	assert.Equal(t, 450.0, report.TotalAmount)
	assert.Equal(t, 1, report.CardCount)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Иванов И.", report.Rows[0].WorkerName)
	assert.Equal(t, "Сборка", report.Rows[0].WorkTypes)

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report = model.WorkReport{}
	decode(t, rec, &report)
	assert.Equal(t, 450.0, report.TotalAmount)
	assert.Nil(t, report.Filter.DateFrom)

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/reports", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/reports/export", map[string]string{"format": "csv"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sdelka-report-all.csv")
	assert.Equal(t, "total;450", rec.Body.String())

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/reports/export", map[string]string{"format": "docx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleViewer, http.MethodPost, "/reports", map[string]string{"date_from": "2024-03-01", "date_to": "2024-02-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, model.RoleAdmin, http.MethodDelete, "/work-cards/"+card.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, model.RoleViewer, http.MethodGet, "/work-cards/"+card.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2024-02-01", "2024-02-01T10:00:00Z", "2024-02-01T10:00:00", "01.02.2024"} {
		parsed, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.February, parsed.Month())
		assert.Equal(t, 1, parsed.Day())
	}
	_, err := parseDate("")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = parseDate("1 Feb")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fee-ledger/internal/adapters/http/middleware"
	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/config"
	"fee-ledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingSender struct {
	mu     sync.Mutex
	to     []string
	reject string
}

func (s *recordingSender) Send(_ context.Context, to, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if to == s.reject {
		return errors.New("relay refused")
	}
	s.to = append(s.to, to)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type apiClient struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func (a apiClient) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func newTestApp(t *testing.T, sender services.MailSender) apiClient {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	clock := services.Clock(func() time.Time { return now })

	cfg := &config.Config{AppMode: "dev"}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg, NewServices(db, sender, clock))
	return apiClient{t: t, app: app, db: db}
}

func clientBody(n, fee string) map[string]any {
	return map[string]any{
		"name":        "Client " + n,
		"tax_id":      "TAX-" + n,
		"address":     n + " Main Street",
		"tax_regime":  "Simples Nacional",
		"email":       "client" + n + "@example.com",
		"phone":       "555-" + n,
		"monthly_fee": json.Number(fee),
		"modules":     []string{"fiscal"},
	}
}

func TestClientLifecycle(t *testing.T) {
	api := newTestApp(t, &recordingSender{})

	status, env := api.do(http.MethodPost, "/api/v1/clients", clientBody("1", "1500"))
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created models.ClientResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "001", created.ID)
	assert.Equal(t, "delinquent", string(created.Status))
	assert.Equal(t, []string{"fiscal"}, created.Modules)

	status, env = api.do(http.MethodPost, "/api/v1/clients", clientBody("1", "1500"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", env.Error)

	bad := clientBody("2", "0")
	status, env = api.do(http.MethodPost, "/api/v1/clients", bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "monthly_fee")

	upd := clientBody("1", "1800")
	status, env = api.do(http.MethodPut, "/api/v1/clients/001", upd)
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = api.do(http.MethodGet, "/api/v1/clients/001/fee-history", nil)
	require.Equal(t, http.StatusOK, status)
	var history []models.FeeChangeResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "initial", history[0].Kind)
	assert.Equal(t, "change", history[1].Kind)
	require.NotNil(t, history[1].PreviousValue)
	assert.Equal(t, "1500", history[1].PreviousValue.String())

	status, _ = api.do(http.MethodPost, "/api/v1/clients/001/inactivate", map[string]string{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/api/v1/clients/001/inactivate", map[string]string{"reason": "closed"})
	assert.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodGet, "/api/v1/clients?status=inactive", nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.ClientResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	require.NotNil(t, list[0].InactivationReason)
	assert.Equal(t, "closed", *list[0].InactivationReason)

	status, _ = api.do(http.MethodGet, "/api/v1/clients?status=late", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodPost, "/api/v1/clients/001/reactivate", nil)
	require.Equal(t, http.StatusOK, status)
	var reactivated models.ClientResponse
	require.NoError(t, json.Unmarshal(env.Data, &reactivated))
	assert.Equal(t, "delinquent", string(reactivated.Status))

	status, _ = api.do(http.MethodDelete, "/api/v1/clients/001", nil)
	assert.Equal(t, http.StatusOK, status)
	status, env = api.do(http.MethodGet, "/api/v1/clients/001", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Client not found", env.Error)
}

func TestPaymentsAndDashboard(t *testing.T) {
	api := newTestApp(t, &recordingSender{})

	for _, n := range []string{"1", "2"} {
		status, env := api.do(http.MethodPost, "/api/v1/clients", clientBody(n, "100"))
		require.Equal(t, http.StatusCreated, status, env.Error)
	}

	status, env := api.do(http.MethodPost, "/api/v1/payments", map[string]any{
		"client_id": "001", "amount": 100, "payment_date": "2024-03-10",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var payment models.PaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &payment))

	status, _ = api.do(http.MethodPost, "/api/v1/payments", map[string]any{
		"client_id": "404", "amount": 100,
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = api.do(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	var dash services.DashboardData
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, "100", dash.Projected.String())
	assert.Equal(t, "100", dash.CollectedThisMonth.String())
	assert.Equal(t, 1, dash.OnTimeCount)
	assert.Equal(t, 1, dash.DelinquentCount)
	assert.Equal(t, "2024-03", dash.CurrentMonthKey)

	status, env = api.do(http.MethodGet, "/api/v1/dashboard/monthly-revenue?daily=true&month=2&year=2024", nil)
	require.Equal(t, http.StatusOK, status)
	var series services.RevenueSeries
	require.NoError(t, json.Unmarshal(env.Data, &series))
	assert.Len(t, series.Keys, 29)
	assert.Len(t, series.Values, 29)

	status, _ = api.do(http.MethodGet, "/api/v1/dashboard/monthly-revenue?daily=true&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodGet, "/api/v1/dashboard/recent-payments", nil)
	require.Equal(t, http.StatusOK, status)
	var recent []models.PaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &recent))
	assert.Len(t, recent, 1)

	status, env = api.do(http.MethodGet, "/api/v1/payments?client_id=001&page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Data []models.PaymentResponse `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Meta.Total)

	status, _ = api.do(http.MethodDelete, "/api/v1/payments/"+payment.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodDelete, "/api/v1/payments/"+payment.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBills(t *testing.T) {
	api := newTestApp(t, &recordingSender{})

	status, env := api.do(http.MethodPost, "/api/v1/bills", map[string]any{
		"description": "Power", "amount": 250, "due_date": "2024-03-14", "category": "utilities",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var bill models.BillResponse
	require.NoError(t, json.Unmarshal(env.Data, &bill))
	assert.Equal(t, "pending", bill.Status)
	assert.True(t, bill.Overdue)

	status, env = api.do(http.MethodPost, "/api/v1/bills/"+bill.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &bill))
	assert.Equal(t, "paid", bill.Status)
	assert.False(t, bill.Overdue)
	require.NotNil(t, bill.PaymentDate)
	assert.Equal(t, "2024-03-15", *bill.PaymentDate)

	status, _ = api.do(http.MethodPost, "/api/v1/bills/"+bill.ID+"/pay", map[string]string{"payment_date": "2024-03-15"})
	assert.Equal(t, http.StatusConflict, status)

	status, env = api.do(http.MethodGet, "/api/v1/bills?upcoming_days=7", nil)
	require.Equal(t, http.StatusOK, status)
	var upcoming []models.BillResponse
	require.NoError(t, json.Unmarshal(env.Data, &upcoming))
	assert.Empty(t, upcoming)

	status, _ = api.do(http.MethodGet, "/api/v1/bills?status=late", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodDelete, "/api/v1/bills/"+bill.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodGet, "/api/v1/bills/"+bill.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNotices(t *testing.T) {
	sender := &recordingSender{reject: "client2@example.com"}
	api := newTestApp(t, sender)

	for _, n := range []string{"1", "2", "3"} {
		status, env := api.do(http.MethodPost, "/api/v1/clients", clientBody(n, "100"))
		require.Equal(t, http.StatusCreated, status, env.Error)
	}

	status, env := api.do(http.MethodPost, "/api/v1/notices/run", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var report services.NoticeReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Sent)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "002", report.Failed[0].ClientID)

	status, _ = api.do(http.MethodPost, "/api/v1/notices/send", map[string]string{"client_id": "001"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodPost, "/api/v1/notices/send", map[string]string{"client_id": "002"})
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = api.do(http.MethodPost, "/api/v1/notices/send", map[string]string{"client_id": "404"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPost, "/api/v1/notices/send", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNoticeStoreFailureIsInternalError(t *testing.T) {
	api := newTestApp(t, &recordingSender{})
	status, env := api.do(http.MethodPost, "/api/v1/clients", clientBody("1", "100"))
	require.Equal(t, http.StatusCreated, status, env.Error)

	sqlDB, err := api.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status, env = api.do(http.MethodPost, "/api/v1/notices/send", map[string]string{"client_id": "001"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to send billing notice", env.Error)
}

func TestNoticesDisabled(t *testing.T) {
	api := newTestApp(t, nil)

	status, env := api.do(http.MethodPost, "/api/v1/notices/run", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Mail sending is not configured", env.Error)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestApp(t, nil)

	resp, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "healthy", health.Checks["database"])
	assert.Equal(t, "disabled", health.Checks["mail"])

	resp, err = api.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = api.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
}

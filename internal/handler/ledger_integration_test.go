package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minkhant-dev/piecerate-api/internal/audit"
	"github.com/minkhant-dev/piecerate-api/internal/ledger"
	"github.com/minkhant-dev/piecerate-api/internal/middleware"
	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/registry"
	"github.com/minkhant-dev/piecerate-api/internal/reports"
	"github.com/minkhant-dev/piecerate-api/internal/service"
	"github.com/minkhant-dev/piecerate-api/internal/store"
)

type fixtureClients struct {
	accounts map[string]*models.ClientAccount
}

func (f *fixtureClients) FindByID(_ context.Context, id string) (*models.ClientAccount, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return account, nil
}

type apiFixture struct {
	router  *gin.Engine
	clients *fixtureClients
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ownerHash, err := bcrypt.GenerateFromPassword([]byte("owner-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	clients := &fixtureClients{accounts: map[string]*models.ClientAccount{
		"factory-1": {
			ID:                 "factory-1",
			ClientName:         "Golden Loom",
			SubscriptionStatus: models.SubscriptionPaid,
			OwnerPasswordHash:  string(ownerHash),
		},
	}}

	provider := store.NewMemoryProvider(store.SeedData)
	trail := audit.NewTrail(provider, nil)
	auditSvc := audit.NewService(provider, nil)
	reg := registry.New(provider, trail, nil, nil)

	productionSvc := ledger.NewProductionService(provider, reg, trail, nil, nil)
	paymentSvc := ledger.NewPaymentService(provider, trail, nil, nil)
	exportSvc := ledger.NewExportService(productionSvc)
	reportSvc := reports.NewService(productionSvc, paymentSvc, reg, nil, time.Minute, nil)

	authSvc := service.NewAuthService(clients, reg, nil, nil, nil, service.AuthConfig{
		TokenSecret:    "integration-secret",
		TokenExpiry:    time.Hour,
		Issuer:         "piecerate-api",
		EntitlementTTL: time.Minute,
	})

	authHandler := NewAuthHandler(authSvc)
	workerHandler := NewWorkerHandler(reg)
	productionHandler := NewProductionHandler(productionSvc, exportSvc, reportSvc)
	paymentHandler := NewPaymentHandler(paymentSvc, reportSvc)
	reportHandler := NewReportHandler(reportSvc)
	auditHandler := NewAuditHandler(auditSvc)

	router := gin.New()
	router.POST("/auth/login", authHandler.Login)

	secured := router.Group("", middleware.JWT(authSvc), middleware.Entitlement(authSvc))
	ownerOnly := middleware.RequireRoles(models.RoleOwner)
	anyRole := middleware.RequireRoles(models.RoleOwner, models.RoleSupervisor)

	secured.GET("/workers", anyRole, workerHandler.List)
	secured.POST("/workers", ownerOnly, workerHandler.Create)
	secured.GET("/production-entries", anyRole, productionHandler.List)
	secured.POST("/production-entries", anyRole, productionHandler.Create)
	secured.GET("/production-entries/export", anyRole, productionHandler.Export)
	secured.POST("/payments", anyRole, paymentHandler.Create)
	secured.GET("/reports/dashboard", anyRole, reportHandler.Dashboard)
	secured.GET("/reports/workers/:id/balance", anyRole, reportHandler.WorkerBalance)
	secured.GET("/audit-log", ownerOnly, auditHandler.List)

	return &apiFixture{router: router, clients: clients}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func (f *apiFixture) login(t *testing.T, role models.Role, password string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"client_id": "factory-1",
		"role":      string(role),
		"password":  password,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func TestLoginAndListWorkers(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	resp := f.do(t, http.MethodGet, "/workers", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Aung Aung")
	assert.Contains(t, resp.Body.String(), "position_name")
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/workers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodGet, "/workers", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSupervisorCannotMutateMasterData(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	resp := f.do(t, http.MethodPost, "/workers", token, gin.H{"name": "New Hand", "position_id": "P01"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = f.do(t, http.MethodGet, "/audit-log", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestOwnerCreatesWorkerAndSeesAudit(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleOwner, "owner-pass")

	resp := f.do(t, http.MethodPost, "/workers", token, gin.H{"id": "W100", "name": "New Hand", "position_id": "P01"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = f.do(t, http.MethodGet, "/audit-log", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Added worker W100: New Hand")
}

func TestProductionEntryLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	resp := f.do(t, http.MethodPost, "/production-entries", token, gin.H{
		"date":               "2024-03-15",
		"shift":              "Day",
		"worker_name":        "Aung Aung",
		"task_name":          "Weaving - Pattern A",
		"completed_quantity": 100,
		"defect_quantity":    5,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"piece_rate":150`)
	assert.Contains(t, resp.Body.String(), `"base_pay":15000`)
	assert.Contains(t, resp.Body.String(), `"deduction_amount":750`)

	resp = f.do(t, http.MethodGet, "/production-entries?limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"page_size":10`)
}

func TestProductionEntryValidationSurfaces400(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	resp := f.do(t, http.MethodPost, "/production-entries", token, gin.H{
		"date":               "2024-03-15",
		"shift":              "Afternoon",
		"worker_name":        "Aung Aung",
		"task_name":          "Weaving - Pattern A",
		"completed_quantity": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
}

func TestWorkerBalanceEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	resp := f.do(t, http.MethodPost, "/production-entries", token, gin.H{
		"date":               "2024-03-15",
		"shift":              "Day",
		"worker_name":        "Aung Aung",
		"task_name":          "Weaving - Pattern A",
		"completed_quantity": 100,
		"defect_quantity":    0,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = f.do(t, http.MethodPost, "/payments", token, gin.H{
		"worker_id":   "W001",
		"worker_name": "Aung Aung",
		"date":        "2024-03-16",
		"amount":      5000,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = f.do(t, http.MethodGet, "/reports/workers/W001/balance", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total_earned":15000`)
	assert.Contains(t, resp.Body.String(), `"total_paid":5000`)
	assert.Contains(t, resp.Body.String(), `"balance":10000`)
}

func TestExpiredSubscriptionGets402(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	// Lapse the subscription between login and the next request; the
	// entitlement middleware must reject the still-valid token.
	f.clients.accounts["factory-1"].SubscriptionStatus = models.SubscriptionExpired

	resp := f.do(t, http.MethodGet, "/workers", token, nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.Code)
	assert.Contains(t, resp.Body.String(), "SUBSCRIPTION_EXPIRED")
}

func TestExportEndpointServesCSV(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, models.RoleSupervisor, "")

	resp := f.do(t, http.MethodGet, "/production-entries/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Body.String(), "ID,Date,Shift,WorkerName,TaskName")

	resp = f.do(t, http.MethodGet, fmt.Sprintf("/production-entries/export?format=%s", "xml"), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

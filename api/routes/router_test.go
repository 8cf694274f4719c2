package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/auth"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "pharmacos-test", ExpirationMinutes: 60},
	}
}

func testRouter() http.Handler {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "routes-test"})
	return NewRouter(cfg, logg, stubPinger{}, nil, Services{}, nil)
}

func bearerToken(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthLive(t *testing.T) {
	router := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Pharmacos-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Pharmacos-Env"))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter()
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/orders/my-orders"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/suppliers"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestStaffRoutesRejectCustomers(t *testing.T) {
	router := testRouter()
	token := bearerToken(t, enums.RoleCustomer)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/orders/manage"},
		{http.MethodGet, "/api/v1/orders/stats"},
		{http.MethodGet, "/api/v1/suppliers"},
		{http.MethodGet, "/api/v1/batches"},
		{http.MethodGet, "/api/v1/stock/report"},
		{http.MethodPost, "/api/v1/admin/staff"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestCustomerRoutesRejectStaff(t *testing.T) {
	router := testRouter()
	token := bearerToken(t, enums.RoleStaff)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminStaffRouteRejectsStaffRole(t *testing.T) {
	router := testRouter()
	token := bearerToken(t, enums.RoleStaff)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/staff", nil)
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

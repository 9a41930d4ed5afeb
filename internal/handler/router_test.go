package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/mealman/internal/meal"
	"github.com/hitoshi/mealman/internal/model"
)

type mockHealthChecker struct {
	pingErr error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.pingErr
}

// countingMealService は変更系操作の呼び出し回数を数えるモック。
type countingMealService struct {
	mockMealService
	logCalls    int
	deleteCalls int
}

func (c *countingMealService) Log(ctx context.Context, ate bool, timestamp *time.Time) (*model.MealEvent, error) {
	c.logCalls++
	return &model.MealEvent{ID: 1, Ate: ate, Timestamp: time.Now()}, nil
}

func (c *countingMealService) Delete(ctx context.Context, id int64) error {
	c.deleteCalls++
	return nil
}

func newTestRouter(mealSvc MealServiceInterface, finder *mockSessionFinder) http.Handler {
	return NewRouter(&RouterDeps{
		SessionFinder:     finder,
		CORSAllowedOrigin: "http://localhost:3000",
		HealthChecker:     &mockHealthChecker{},
		AuthService:       &mockAuthService{},
		AuthConfig: AuthHandlerConfig{
			BaseURL:       "http://localhost:3000",
			SessionMaxAge: 604800,
		},
		MealService:     mealSvc,
		ReminderService: &mockReminderService{},
	})
}

// mockSessionFinder はルーター構築に使うSessionFinderのモック。
type mockSessionFinder struct {
	session *model.Session
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.session, nil
}

func TestRouter_PublicStatusEndpoint_NoAuthRequired(t *testing.T) {
	svc := &mockMealService{
		statusFn: func(ctx context.Context) (*meal.StatusView, error) {
			return &meal.StatusView{Ate: false}, nil
		},
	}
	router := newTestRouter(svc, &mockSessionFinder{})

	req := httptest.NewRequest(http.MethodGet, "/api/meals", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_MutatingRoutes_RejectedWithoutSession(t *testing.T) {
	svc := &countingMealService{}
	router := newTestRouter(svc, &mockSessionFinder{session: nil})

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/meals", `{"ate":true}`},
		{http.MethodGet, "/api/meals/recent", ""},
		{http.MethodDelete, "/api/meals/1", ""},
		{http.MethodGet, "/api/reminders/recent", ""},
	}

	for _, tt := range tests {
		var body *strings.Reader
		if tt.body != "" {
			body = strings.NewReader(tt.body)
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(tt.method, tt.path, body)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, http.StatusUnauthorized)
		}
	}

	// 未認証リクエストはサービス層に一切到達しないこと
	if svc.logCalls != 0 || svc.deleteCalls != 0 {
		t.Errorf("service calls = log:%d delete:%d, want 0/0", svc.logCalls, svc.deleteCalls)
	}
}

func TestRouter_MutatingRoutes_AllowedWithValidSession(t *testing.T) {
	svc := &countingMealService{}
	finder := &mockSessionFinder{
		session: &model.Session{
			ID:        "valid-session",
			Email:     "admin@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	router := newTestRouter(svc, finder)

	req := httptest.NewRequest(http.MethodPost, "/api/meals", strings.NewReader(`{"ate":true}`))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid-session"})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.logCalls != 1 {
		t.Errorf("log calls = %d, want 1", svc.logCalls)
	}
}

func TestRouter_RemindEndpoint_Public(t *testing.T) {
	router := newTestRouter(&mockMealService{}, &mockSessionFinder{})

	req := httptest.NewRequest(http.MethodPost, "/api/remind", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.1:54321"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_Health_OK(t *testing.T) {
	router := newTestRouter(&mockMealService{}, &mockSessionFinder{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_Health_UnhealthyWhenPingFails(t *testing.T) {
	router := NewRouter(&RouterDeps{
		SessionFinder:     &mockSessionFinder{},
		CORSAllowedOrigin: "http://localhost:3000",
		HealthChecker:     &mockHealthChecker{pingErr: context.DeadlineExceeded},
		AuthService:       &mockAuthService{},
		MealService:       &mockMealService{},
		ReminderService:   &mockReminderService{},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_AuthStatus_Public(t *testing.T) {
	router := newTestRouter(&mockMealService{}, &mockSessionFinder{})

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

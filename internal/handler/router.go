package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mealman/internal/metrics"
	"github.com/hitoshi/mealman/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusObserver    middleware.StatusObserver

	// 運用系
	HealthChecker   HealthChecker
	MetricsGatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 食事
	MealService MealServiceInterface

	// リマインダー
	ReminderService ReminderServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → (公開ルート | Session → RateLimit(General) → 変更系ルート)
//
// 食事レコードを変更するルートはすべてSessionミドルウェアの内側にあり、
// 未認証リクエストはデータベースに触れる前に401で弾かれる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusObserver))
	}
	r.Use(middleware.NewRecoveryMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	mealHandler := NewMealHandler(deps.MealService)
	remindHandler := NewRemindHandler(deps.ReminderService)

	// --- 運用系ルート ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	if deps.MetricsGatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGatherer).ServeHTTP)
	}

	// --- 認証不要のルート ---

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Get("/status", authHandler.Status)
		r.Post("/logout", authHandler.Logout)
	})

	// 公開ステータス（ポーリング表示が参照する）
	r.Get("/api/meals", mealHandler.GetStatus)

	// 公開リマインダー。固定ウィンドウの回数制限はサービス層で判定する
	r.Post("/api/remind", remindHandler.Remind)

	// --- 認証が必要なルート（変更系） ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// 食事イベント管理。GET /api/meals（公開ステータス）と同じプレフィックスだが
		// メソッド単位で登録し、変更系だけをこのグループに入れる
		r.Post("/api/meals", mealHandler.LogMeal)
		r.Get("/api/meals/recent", mealHandler.ListRecent)
		r.Delete("/api/meals/{id}", mealHandler.DeleteMeal)

		// リマインダー送信履歴
		r.Get("/api/reminders/recent", remindHandler.ListRecent)
	})

	return r
}

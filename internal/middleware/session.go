// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/mealman/internal/model"
)

const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// adminEmailContextKey はリクエストコンテキストに認証済み管理者のemailを格納するためのキー。
var adminEmailContextKey = contextKey("admin_email")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 食事レコードを変更するすべてのルートはこのミドルウェアの内側に置き、
// 認証失敗時はハンドラーに到達する前に401を返す（部分書き込みは発生しない）。
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. CookieからセッションIDを取得
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				writeAuthenticationRequired(w)
				return
			}

			// 2. セッションの有効性を検証（期限切れは検索時にnow()比較で除外される）
			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				writeAuthenticationRequired(w)
				return
			}
			if session == nil {
				writeAuthenticationRequired(w)
				return
			}

			// 3. 認証済み管理者のemailをコンテキストに注入
			ctx := context.WithValue(r.Context(), adminEmailContextKey, session.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminEmailFromContext はリクエストコンテキストから認証済み管理者のemailを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func AdminEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(adminEmailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("admin email not found in context")
	}
	return email, nil
}

// ContextWithAdminEmail はコンテキストに管理者emailを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminEmailContextKey, email)
}

// writeAuthenticationRequired は401レスポンスを統一エラーフォーマットで書き込む。
func writeAuthenticationRequired(w http.ResponseWriter) {
	apiErr := model.NewAuthenticationRequiredError()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"code":     apiErr.Code,
		"message":  apiErr.Message,
		"category": apiErr.Category,
		"action":   apiErr.Action,
	})
}

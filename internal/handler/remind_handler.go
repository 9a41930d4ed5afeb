package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/mealman/internal/middleware"
	"github.com/hitoshi/mealman/internal/model"
	"github.com/hitoshi/mealman/internal/reminder"
)

// ReminderServiceInterface はリマインダーハンドラーが必要とするサービスインターフェース。
type ReminderServiceInterface interface {
	// Send はリマインダーを送信する。回数制限の判定が先に行われる。
	Send(ctx context.Context, callerKey, message string) (*reminder.Result, error)
	// Recent は新しい順に直近の送信済みリマインダーを返す。
	Recent(ctx context.Context, limit int) ([]*model.Reminder, error)
}

// RemindHandler はリマインダー送信のHTTPハンドラー。
type RemindHandler struct {
	service ReminderServiceInterface
}

// NewRemindHandler はRemindHandlerを生成する。
func NewRemindHandler(service ReminderServiceInterface) *RemindHandler {
	return &RemindHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

// remindRequest はリマインダー送信リクエストのボディ。
type remindRequest struct {
	Message string `json:"message,omitempty"`
}

// rateLimitInfo は成功レスポンスに含める残量情報。
type rateLimitInfo struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
	Reset     int `json:"reset"`
}

// remindResponse はリマインダー送信成功のレスポンス。
type remindResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	RateLimit rateLimitInfo `json:"rate_limit"`
}

// reminderRecordResponse は送信履歴のレスポンス。
type reminderRecordResponse struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Remind はリマインダーを送信する。認証不要だが回数制限の対象。
// 成功時はX-RateLimit-*ヘッダーで残量を、
// 回数制限超過時はRetry-Afterヘッダーとretry_after付きボディを返す。
// POST /api/remind
func (h *RemindHandler) Remind(w http.ResponseWriter, r *http.Request) {
	var req remindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	callerKey := middleware.ClientIP(r)

	result, err := h.service.Send(r.Context(), callerKey, req.Message)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeRateLimitExceeded {
			w.Header().Set("Retry-After", strconv.Itoa(apiErr.RetryAfter))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(apiErr.RetryAfter))
		}
		handleServiceError(w, err)
		return
	}

	decision := result.Decision
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(decision.ResetIn))

	writeJSON(w, http.StatusOK, remindResponse{
		Success: true,
		Message: result.Message,
		RateLimit: rateLimitInfo{
			Remaining: decision.Remaining,
			Limit:     decision.Limit,
			Reset:     decision.ResetIn,
		},
	})
}

// ListRecent は送信済みリマインダーの履歴を新しい順に返す。
// GET /api/reminders/recent?limit=N
func (h *RemindHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidRequestError("limitは整数で指定してください"))
			return
		}
		limit = n
	}

	reminders, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]reminderRecordResponse, len(reminders))
	for i, rec := range reminders {
		results[i] = reminderRecordResponse{
			ID:      rec.ID,
			Message: rec.Message,
			SentAt:  rec.SentAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reminders": results})
}

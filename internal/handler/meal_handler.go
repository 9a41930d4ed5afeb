package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mealman/internal/meal"
	"github.com/hitoshi/mealman/internal/model"
)

// MealServiceInterface は食事ハンドラーが必要とするサービスインターフェース。
type MealServiceInterface interface {
	// Status は最新イベントと現在時刻から公開ステータスを導出して返す。
	Status(ctx context.Context) (*meal.StatusView, error)
	// Log は食事イベントを記録する。timestampがnilの場合は現在時刻を使用する。
	Log(ctx context.Context, ate bool, timestamp *time.Time) (*model.MealEvent, error)
	// Recent は新しい順に直近の食事イベントを返す。
	Recent(ctx context.Context, limit int) ([]*model.MealEvent, error)
	// Delete は指定IDの食事イベントを削除する。
	Delete(ctx context.Context, id int64) error
}

// MealHandler は食事ステータスと食事イベント管理のHTTPハンドラー。
type MealHandler struct {
	service MealServiceInterface
}

// NewMealHandler はMealHandlerを生成する。
func NewMealHandler(service MealServiceInterface) *MealHandler {
	return &MealHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

// statusResponse は公開ステータスのレスポンス。
// timestampとlast_meal_timestampは該当しない場合null。
type statusResponse struct {
	Ate               bool       `json:"ate"`
	Timestamp         *time.Time `json:"timestamp"`
	LastMealTimestamp *time.Time `json:"last_meal_timestamp,omitempty"`
	StatusChanged     bool       `json:"status_changed,omitempty"`
	TimeSinceLastMeal int64      `json:"time_since_last_meal,omitempty"`
}

// logMealRequest は食事イベント記録リクエストのボディ。
type logMealRequest struct {
	Ate       bool    `json:"ate"`
	Timestamp *string `json:"timestamp,omitempty"`
}

// mealEventResponse は食事イベントのレスポンス。
type mealEventResponse struct {
	ID        int64     `json:"id"`
	Ate       bool      `json:"ate"`
	Timestamp time.Time `json:"timestamp"`
}

// GetStatus は公開ステータスを返す。認証不要。
// GET /api/meals
func (h *MealHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Status(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Ate:               view.Ate,
		Timestamp:         view.Timestamp,
		LastMealTimestamp: view.LastMealTimestamp,
		StatusChanged:     view.StatusChanged,
		TimeSinceLastMeal: view.TimeSinceLastMealMinutes,
	})
}

// LogMeal は食事イベントを記録する。
// timestampを省略した場合は現在時刻、指定した場合は過去・未来を問わず
// そのまま記録する（バックフィル対応）。
// POST /api/meals
func (h *MealHandler) LogMeal(w http.ResponseWriter, r *http.Request) {
	var req logMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	var timestamp *time.Time
	if req.Timestamp != nil && *req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidRequestError("timestampはISO-8601形式で指定してください"))
			return
		}
		timestamp = &ts
	}

	event, err := h.service.Log(r.Context(), req.Ate, timestamp)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mealEventResponse{
		ID:        event.ID,
		Ate:       event.Ate,
		Timestamp: event.Timestamp,
	})
}

// ListRecent は直近の食事イベントを新しい順に返す。
// GET /api/meals/recent?limit=N
func (h *MealHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]mealEventResponse, len(events))
	for i, event := range events {
		results[i] = mealEventResponse{
			ID:        event.ID,
			Ate:       event.Ate,
			Timestamp: event.Timestamp,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"meals": results})
}

// DeleteMeal は指定IDの食事イベントを削除する。
// DELETE /api/meals/{id}
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("idは整数で指定してください"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

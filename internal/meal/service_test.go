package meal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/mealman/internal/model"
	"github.com/hitoshi/mealman/internal/repository"
)

// --- モック定義 ---

type mockMealRepo struct {
	createFn     func(ctx context.Context, event *model.MealEvent) error
	findLatestFn func(ctx context.Context) (*model.MealEvent, error)
	listRecentFn func(ctx context.Context, limit int) ([]*model.MealEvent, error)
	deleteByIDFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockMealRepo) Create(ctx context.Context, event *model.MealEvent) error {
	if m.createFn != nil {
		return m.createFn(ctx, event)
	}
	return nil
}

func (m *mockMealRepo) FindLatest(ctx context.Context) (*model.MealEvent, error) {
	if m.findLatestFn != nil {
		return m.findLatestFn(ctx)
	}
	return nil, nil
}

func (m *mockMealRepo) ListRecent(ctx context.Context, limit int) ([]*model.MealEvent, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockMealRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return false, nil
}

// --- compile-time interface checks ---
var _ repository.MealRepository = (*mockMealRepo)(nil)

// --- テスト ---

func TestStatus_NoEvents_ReturnsNotEaten(t *testing.T) {
	ctx := context.Background()

	repo := &mockMealRepo{
		findLatestFn: func(ctx context.Context) (*model.MealEvent, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, 3*time.Hour, nil)

	view, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if view.Ate {
		t.Error("expected ate=false when no events are logged")
	}
}

func TestStatus_ExpiredEvent_DerivedAtReadTime(t *testing.T) {
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	repo := &mockMealRepo{
		findLatestFn: func(ctx context.Context) (*model.MealEvent, error) {
			return &model.MealEvent{ID: 7, Ate: true, Timestamp: ts}, nil
		},
	}

	svc := NewService(repo, 3*time.Hour, nil)
	svc.now = func() time.Time { return ts.Add(5 * time.Hour) }

	view, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if view.Ate {
		t.Error("expected ate=false for expired event")
	}
	if !view.StatusChanged {
		t.Error("expected status_changed=true for expired event")
	}
	if view.TimeSinceLastMealMinutes != 300 {
		t.Errorf("time_since_last_meal = %d, want 300", view.TimeSinceLastMealMinutes)
	}
}

func TestStatus_RepoError_ReturnsError(t *testing.T) {
	ctx := context.Background()

	repo := &mockMealRepo{
		findLatestFn: func(ctx context.Context) (*model.MealEvent, error) {
			return nil, errors.New("db error")
		},
	}
	svc := NewService(repo, 3*time.Hour, nil)

	_, err := svc.Status(ctx)
	if err == nil {
		t.Fatal("expected error from Status")
	}
}

func TestLog_NilTimestamp_UsesCurrentTime(t *testing.T) {
	ctx := context.Background()

	fixedNow := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	var created *model.MealEvent

	repo := &mockMealRepo{
		createFn: func(ctx context.Context, event *model.MealEvent) error {
			event.ID = 42
			created = event
			return nil
		},
	}

	svc := NewService(repo, 3*time.Hour, nil)
	svc.now = func() time.Time { return fixedNow }

	event, err := svc.Log(ctx, true, nil)
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	if event.ID != 42 {
		t.Errorf("event ID = %d, want 42", event.ID)
	}
	if created == nil {
		t.Fatal("expected event to be created")
	}
	if !created.Timestamp.Equal(fixedNow) {
		t.Errorf("timestamp = %v, want %v", created.Timestamp, fixedNow)
	}
}

func TestLog_ExplicitTimestamp_StoredVerbatim(t *testing.T) {
	ctx := context.Background()

	// 過去のタイムスタンプ（バックフィル）は検証せずそのまま保存する
	past := time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)
	var created *model.MealEvent

	repo := &mockMealRepo{
		createFn: func(ctx context.Context, event *model.MealEvent) error {
			created = event
			return nil
		},
	}

	svc := NewService(repo, 3*time.Hour, nil)

	_, err := svc.Log(ctx, false, &past)
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected event to be created")
	}
	if !created.Timestamp.Equal(past) {
		t.Errorf("timestamp = %v, want %v", created.Timestamp, past)
	}
	if created.Ate {
		t.Error("ate = true, want false")
	}
}

func TestLog_RepoError_ReturnsError(t *testing.T) {
	ctx := context.Background()

	repo := &mockMealRepo{
		createFn: func(ctx context.Context, event *model.MealEvent) error {
			return errors.New("insert failed")
		},
	}
	svc := NewService(repo, 3*time.Hour, nil)

	_, err := svc.Log(ctx, true, nil)
	if err == nil {
		t.Fatal("expected error from Log")
	}
}

func TestRecent_ClampsLimit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"zero uses default", 0, 20},
		{"negative uses default", -5, 20},
		{"within range passes through", 50, 50},
		{"above max clamps", 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			repo := &mockMealRepo{
				listRecentFn: func(ctx context.Context, limit int) ([]*model.MealEvent, error) {
					gotLimit = limit
					return nil, nil
				},
			}
			svc := NewService(repo, 3*time.Hour, nil)

			if _, err := svc.Recent(ctx, tt.limit); err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", gotLimit, tt.wantLimit)
			}
		})
	}
}

func TestDelete_Found_Succeeds(t *testing.T) {
	ctx := context.Background()

	var deletedID int64
	repo := &mockMealRepo{
		deleteByIDFn: func(ctx context.Context, id int64) (bool, error) {
			deletedID = id
			return true, nil
		},
	}
	svc := NewService(repo, 3*time.Hour, nil)

	if err := svc.Delete(ctx, 99); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deletedID != 99 {
		t.Errorf("deleted ID = %d, want 99", deletedID)
	}
}

func TestDelete_NotFound_ReturnsMealNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mockMealRepo{
		deleteByIDFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(repo, 3*time.Hour, nil)

	err := svc.Delete(ctx, 12345)
	if err == nil {
		t.Fatal("expected error for missing event")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMealNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeMealNotFound)
	}
}

type countingMetrics struct {
	mealLogged int
	lastAte    bool
}

func (c *countingMetrics) RecordMealLogged(ate bool) {
	c.mealLogged++
	c.lastAte = ate
}

func TestLog_RecordsMetrics(t *testing.T) {
	ctx := context.Background()

	metrics := &countingMetrics{}
	svc := NewService(&mockMealRepo{}, 3*time.Hour, metrics)

	if _, err := svc.Log(ctx, true, nil); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	if metrics.mealLogged != 1 {
		t.Errorf("meal logged metric = %d, want 1", metrics.mealLogged)
	}
	if !metrics.lastAte {
		t.Error("expected ate=true label")
	}
}

package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/mealman/internal/model"
)

// PostgresMealRepoはMealRepositoryインターフェースを満たすことを検証
func TestPostgresMealRepo_ImplementsInterface(t *testing.T) {
	var _ MealRepository = (*PostgresMealRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// PostgresReminderRepoはReminderRepositoryインターフェースを満たすことを検証
func TestPostgresReminderRepo_ImplementsInterface(t *testing.T) {
	var _ ReminderRepository = (*PostgresReminderRepo)(nil)
}

// NewPostgresMealRepoが正しく初期化されることを検証
func TestNewPostgresMealRepo_Initializes(t *testing.T) {
	repo := NewPostgresMealRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresReminderRepoが正しく初期化されることを検証
func TestNewPostgresReminderRepo_Initializes(t *testing.T) {
	repo := NewPostgresReminderRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// SessionRepoのFindByIDが期限切れセッションを返さないことの期待動作
func TestPostgresSessionRepo_FindByID_ExpiredSession_Concept(t *testing.T) {
	// このテストはDB接続なしでコンセプトを検証する。
	// FindByIDのクエリはexpires_at > now()で期限切れを除外する。
	session := &model.Session{
		ID:        "expired-session",
		Email:     "admin@example.com",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	if session.ExpiresAt.After(time.Now()) {
		t.Error("expected session to be expired")
	}
}

// MealRepoの並び順の期待動作: timestamp降順、同時刻はid降順
func TestPostgresMealRepo_Ordering_Concept(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := &model.MealEvent{ID: 1, Ate: true, Timestamp: ts}
	newer := &model.MealEvent{ID: 2, Ate: false, Timestamp: ts}

	// 同一タイムスタンプではIDの大きい方（後に挿入された方）が最新として扱われる
	if newer.ID <= older.ID {
		t.Error("later insert should have a larger ID")
	}
}

// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/mealman/internal/model"
)

// MealRepository は食事イベントの永続化インターフェース。
// 書き込みは呼び出しが返った時点で永続化されている（バッファリングしない）。
type MealRepository interface {
	// Create は食事イベントを作成し、採番されたIDをevent.IDに設定する。
	// タイムスタンプは呼び出し側が解決済みの値をそのまま保存する。
	Create(ctx context.Context, event *model.MealEvent) error

	// FindLatest は最新の食事イベントを取得する。
	// 順序はtimestamp降順、同時刻はid降順。1件もない場合はnilを返す。
	FindLatest(ctx context.Context) (*model.MealEvent, error)

	// ListRecent は新しい順にlimit件までの食事イベントを返す。
	// 毎回現在の状態を読み直す（結果のキャッシュはしない）。
	ListRecent(ctx context.Context, limit int) ([]*model.MealEvent, error)

	// DeleteByID は指定IDの食事イベントを削除する。
	// 該当レコードがない場合はfalseを返す。
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れまたは不存在の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDに対しても成功する（冪等）。
	DeleteByID(ctx context.Context, id string) error
}

// ReminderRepository は送信済みリマインダーの監査レコードの永続化インターフェース。
type ReminderRepository interface {
	// Create はリマインダーの監査レコードを作成する。
	Create(ctx context.Context, reminder *model.Reminder) error
	// ListRecent は新しい順にlimit件までの監査レコードを返す。
	ListRecent(ctx context.Context, limit int) ([]*model.Reminder, error)
}

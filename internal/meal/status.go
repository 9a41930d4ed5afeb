// Package meal は食事イベントの記録とステータス導出のドメインロジックを提供する。
package meal

import (
	"time"

	"github.com/hitoshi/mealman/internal/model"
)

// StatusView は公開ステータスの導出結果を表す。
// 永続化されず、読み取りごとに最新イベントと現在時刻から計算し直す。
type StatusView struct {
	Ate bool

	// Timestamp は有効なイベントのタイムスタンプ。
	// 未記録、または失効によりateがfalseへ倒れた場合はnil。
	Timestamp *time.Time

	// LastMealTimestamp は失効した「食べた」イベントのタイムスタンプ。
	// 失効時のみ設定される。
	LastMealTimestamp *time.Time

	// StatusChanged は失効により表示上のステータスが反転したことを示す。
	StatusChanged bool

	// TimeSinceLastMealMinutes は失効時の経過時間（分）。
	TimeSinceLastMealMinutes int64
}

// DeriveStatus は最新イベントと現在時刻から公開ステータスを導出する純粋関数。
// 副作用を持たず、並行に呼び出しても調整は不要。
//
// 「食べた」イベントはexpireAfter経過した時点（elapsed >= expireAfter）で
// 表示上のみ「食べていない」に倒れる。元のイベントは書き換えない。
// 失効の評価は読み取り時に毎回行うため、バックグラウンドのスケジューラは不要で、
// 境界をまたぐ2回の読み取りは決定的に異なる結果を返す。
func DeriveStatus(latest *model.MealEvent, now time.Time, expireAfter time.Duration) StatusView {
	// 一度も記録されていない初期状態
	if latest == nil {
		return StatusView{Ate: false}
	}

	ts := latest.Timestamp

	if !latest.Ate {
		return StatusView{Ate: false, Timestamp: &ts}
	}

	elapsed := now.Sub(latest.Timestamp)
	if elapsed < expireAfter {
		return StatusView{Ate: true, Timestamp: &ts}
	}

	// 自動失効: 表示のみ反転し、最後に食べた時刻と経過分数を報告する
	return StatusView{
		Ate:                      false,
		LastMealTimestamp:        &ts,
		StatusChanged:            true,
		TimeSinceLastMealMinutes: int64(elapsed / time.Minute),
	}
}

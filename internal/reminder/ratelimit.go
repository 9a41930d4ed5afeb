// Package reminder はリマインダー送信の回数制限と通知ディスパッチを提供する。
package reminder

import (
	"sync"
	"time"
)

// Decision は回数制限の判定結果を表す。
// Allowedがtrueの場合はRemaining/Limit/ResetInが、
// falseの場合はRetryAfterが有効。
type Decision struct {
	Allowed bool

	Limit     int
	Remaining int

	// ResetIn は現在のウィンドウが閉じるまでの残り秒数（切り上げ）。
	ResetIn int

	// RetryAfter は拒否時に再試行可能になるまでの秒数（切り上げ）。
	RetryAfter int
}

// window は1つのcaller_keyに対するアクティブなウィンドウ。
type window struct {
	start time.Time
	count int
}

// FixedWindowLimiter は固定ウィンドウ方式の回数制限を提供する。
//
// ウィンドウは前のウィンドウが閉じた後の最初の試行で開始する。
// ウィンドウ境界の判定はタイマーではなく、保存されたwindow_start + Wと
// 現在時刻の比較で読み取り時に毎回行う（ステータス自動失効と同じ遅延評価）。
//
// check-then-incrementは単一のミューテックスで保護されるため、
// 同一キーからの並行試行が上限を超えて同時に通過することはない。
type FixedWindowLimiter struct {
	limit  int
	period time.Duration

	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time
}

// NewFixedWindowLimiter はFixedWindowLimiterを生成する。
// limitはウィンドウあたりの許可回数、periodはウィンドウの長さ。
func NewFixedWindowLimiter(limit int, period time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Attempt はcallerKeyの試行を1回分判定する。
// 判定とカウント増加はアトミックに行う。
func (l *FixedWindowLimiter) Attempt(callerKey string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// 期限切れエントリの遅延クリーンアップ（バックグラウンドタイマーは持たない）
	l.pruneExpiredLocked(now)

	w, ok := l.windows[callerKey]
	if !ok || now.Sub(w.start) >= l.period {
		// 新しいウィンドウは最初の試行で開始する
		w = &window{start: now}
		l.windows[callerKey] = w
	}

	resetIn := ceilSeconds(w.start.Add(l.period).Sub(now))

	if w.count >= l.limit {
		return Decision{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			ResetIn:    resetIn,
			RetryAfter: resetIn,
		}
	}

	w.count++

	return Decision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - w.count,
		ResetIn:   resetIn,
	}
}

// pruneExpiredLocked は閉じたウィンドウのエントリを削除する。
// 呼び出し側がミューテックスを保持していること。
func (l *FixedWindowLimiter) pruneExpiredLocked(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, key)
		}
	}
}

// ceilSeconds はdurationを秒単位に切り上げる。最小値は1。
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	sec := int((d + time.Second - 1) / time.Second)
	if sec < 1 {
		sec = 1
	}
	return sec
}

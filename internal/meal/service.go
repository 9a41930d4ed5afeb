package meal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/mealman/internal/model"
	"github.com/hitoshi/mealman/internal/repository"
)

const (
	// defaultRecentLimit は直近イベント一覧のデフォルト件数。
	defaultRecentLimit = 20
	// maxRecentLimit は直近イベント一覧の上限件数。
	maxRecentLimit = 100
)

// MetricsRecorder は食事記録のメトリクス収集インターフェース。
type MetricsRecorder interface {
	RecordMealLogged(ate bool)
}

// Service は食事イベントのサービス層。
// 記録・削除・一覧とステータス導出を提供する。
type Service struct {
	repo        repository.MealRepository
	expireAfter time.Duration
	metrics     MetricsRecorder
	now         func() time.Time
}

// NewService はServiceを生成する。
// expireAfterは「食べた」ステータスが自動失効するまでの時間。
// metricsはnilでもよい。
func NewService(repo repository.MealRepository, expireAfter time.Duration, metrics MetricsRecorder) *Service {
	return &Service{
		repo:        repo,
		expireAfter: expireAfter,
		metrics:     metrics,
		now:         time.Now,
	}
}

// Status は最新イベントと現在時刻から公開ステータスを導出して返す。
// 導出結果はキャッシュしない。失効境界をまたぐ読み取りが
// 常に現在時刻と整合することを保証するため。
func (s *Service) Status(ctx context.Context) (*StatusView, error) {
	latest, err := s.repo.FindLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("ステータスの取得に失敗しました: %w", err)
	}

	view := DeriveStatus(latest, s.now(), s.expireAfter)
	return &view, nil
}

// Log は食事イベントを記録する。
// timestampがnilの場合は現在時刻を使用する。呼び出し側が指定した
// 過去・未来のタイムスタンプは検証せずそのまま保存する（バックフィル対応）。
// 単一INSERTのため失敗時に部分レコードは残らない。
func (s *Service) Log(ctx context.Context, ate bool, timestamp *time.Time) (*model.MealEvent, error) {
	ts := s.now().UTC()
	if timestamp != nil {
		ts = timestamp.UTC()
	}

	event := &model.MealEvent{
		Ate:       ate,
		Timestamp: ts,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("食事イベントの記録に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMealLogged(ate)
	}

	slog.Info("meal event logged",
		slog.Int64("id", event.ID),
		slog.Bool("ate", event.Ate),
		slog.Time("timestamp", event.Timestamp),
	)

	return event, nil
}

// Recent は新しい順に直近の食事イベントを返す。
// limitが0以下の場合はデフォルト件数、上限を超える場合は上限に丸める。
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.MealEvent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	events, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("直近イベントの取得に失敗しました: %w", err)
	}

	return events, nil
}

// Delete は指定IDの食事イベントを削除する。
// 該当レコードがない場合はMEAL_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("食事イベントの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewMealNotFoundError(id)
	}

	slog.Info("meal event deleted", slog.Int64("id", id))
	return nil
}

package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/mealman/internal/model"
	"github.com/hitoshi/mealman/internal/notify"
	"github.com/hitoshi/mealman/internal/repository"
	"github.com/hitoshi/mealman/internal/security"
)

// defaultMessage はメッセージが空の場合に送信される既定のリマインダー本文。
const defaultMessage = "そろそろご飯を食べましょう！"

// RateLimiter はリマインダー送信の回数制限インターフェース。
type RateLimiter interface {
	// Attempt はcallerKeyの試行を1回分判定する。
	Attempt(callerKey string) Decision
}

// MetricsRecorder はリマインダー送信のメトリクス収集インターフェース。
type MetricsRecorder interface {
	RecordReminderSent()
	RecordReminderRateLimited()
	RecordDeliveryFailure()
	RecordNotifyLatency(duration time.Duration)
}

// ServiceConfig はリマインダーサービスの設定。
type ServiceConfig struct {
	// TargetName は通知メッセージに含める固定の送信先の呼び名。
	TargetName string
	// MaxMessageLen は訪問者入力メッセージの最大長（rune数）。
	MaxMessageLen int
}

// Result は送信成功時の結果を表す。
type Result struct {
	Message  string
	Decision Decision
}

// Service はリマインダーの回数制限判定、メッセージ整形、通知送信、
// 監査レコード記録を行うサービス層。
type Service struct {
	limiter   RateLimiter
	notifier  notify.Notifier
	sanitizer security.MessageSanitizerService
	repo      repository.ReminderRepository
	metrics   MetricsRecorder
	config    ServiceConfig
	now       func() time.Time
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	limiter RateLimiter,
	notifier notify.Notifier,
	sanitizer security.MessageSanitizerService,
	repo repository.ReminderRepository,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		limiter:   limiter,
		notifier:  notifier,
		sanitizer: sanitizer,
		repo:      repo,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// Send はリマインダーを送信する。
//
// 回数制限の判定が先に行われ、拒否された場合は通知チャネルに一切触れず
// RATE_LIMIT_EXCEEDED（retry_after付き）を返す。
// チャネル送信の失敗はDELIVERY_FAILEDとして回数制限の拒否と区別して返す。
func (s *Service) Send(ctx context.Context, callerKey, message string) (*Result, error) {
	decision := s.limiter.Attempt(callerKey)
	if !decision.Allowed {
		if s.metrics != nil {
			s.metrics.RecordReminderRateLimited()
		}
		slog.Warn("reminder rate limited",
			slog.String("caller_key", callerKey),
			slog.Int("retry_after", decision.RetryAfter),
		)
		return nil, model.NewRateLimitExceededError(decision.RetryAfter)
	}

	text := s.composeMessage(message)

	start := s.now()
	err := s.notifier.Send(ctx, text)
	if s.metrics != nil {
		s.metrics.RecordNotifyLatency(s.now().Sub(start))
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDeliveryFailure()
		}
		slog.Error("reminder delivery failed", slog.String("error", err.Error()))
		return nil, model.NewDeliveryFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordReminderSent()
	}

	// 監査レコードはベストエフォート。通知は既に配送済みのため、
	// 記録の失敗でリクエスト自体は失敗させない。
	record := &model.Reminder{
		ID:        uuid.New().String(),
		Message:   text,
		CallerKey: callerKey,
		SentAt:    s.now(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		slog.Error("failed to record reminder", slog.String("error", err.Error()))
	}

	slog.Info("reminder sent",
		slog.String("reminder_id", record.ID),
		slog.Int("remaining", decision.Remaining),
	)

	return &Result{Message: text, Decision: decision}, nil
}

// Recent は新しい順に直近の送信済みリマインダーを返す。
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.Reminder, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	reminders, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("送信履歴の取得に失敗しました: %w", err)
	}

	return reminders, nil
}

// composeMessage は訪問者入力のメッセージをサニタイズ・切り詰めし、
// 固定の送信先の呼び名と合成する。空の場合は既定文を使用する。
func (s *Service) composeMessage(message string) string {
	text := s.sanitizer.Sanitize(message)

	if text == "" {
		text = defaultMessage
	}

	if s.config.MaxMessageLen > 0 {
		runes := []rune(text)
		if len(runes) > s.config.MaxMessageLen {
			text = string(runes[:s.config.MaxMessageLen])
		}
	}

	if s.config.TargetName != "" {
		text = fmt.Sprintf("%sさんへのリマインダー: %s", s.config.TargetName, text)
	}

	return text
}

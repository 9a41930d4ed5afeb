// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 食事記録とリマインダー送信のカウンタ、通知レイテンシのヒストグラムを持つ。
type Collector struct {
	mealsLogged      *prometheus.CounterVec
	remindersSent    prometheus.Counter
	remindersLimited prometheus.Counter
	deliveryFailures prometheus.Counter
	httpStatus       *prometheus.CounterVec
	notifyLatency    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mealsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealman_meals_logged_total",
			Help: "記録された食事イベントの合計数（ate別）",
		}, []string{"ate"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealman_reminders_sent_total",
			Help: "送信に成功したリマインダーの合計数",
		}),
		remindersLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealman_reminders_rate_limited_total",
			Help: "回数制限で拒否されたリマインダー試行の合計数",
		}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealman_delivery_fail_total",
			Help: "通知チャネルへの送信失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		notifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealman_notify_latency_seconds",
			Help:    "通知チャネル送信のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.mealsLogged,
		c.remindersSent,
		c.remindersLimited,
		c.deliveryFailures,
		c.httpStatus,
		c.notifyLatency,
	)

	return c
}

// RecordMealLogged は食事イベントの記録を記録する。
func (c *Collector) RecordMealLogged(ate bool) {
	c.mealsLogged.WithLabelValues(strconv.FormatBool(ate)).Inc()
}

// RecordReminderSent はリマインダー送信成功を記録する。
func (c *Collector) RecordReminderSent() {
	c.remindersSent.Inc()
}

// RecordReminderRateLimited は回数制限による拒否を記録する。
func (c *Collector) RecordReminderRateLimited() {
	c.remindersLimited.Inc()
}

// RecordDeliveryFailure は通知チャネルへの送信失敗を記録する。
func (c *Collector) RecordDeliveryFailure() {
	c.deliveryFailures.Inc()
}

// RecordNotifyLatency は通知送信のレイテンシを記録する。
func (c *Collector) RecordNotifyLatency(duration time.Duration) {
	c.notifyLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

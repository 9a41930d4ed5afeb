// Package notify は外部通知チャネルへの送信を提供する。
// チャネルはテキストを受け取るWebhook（Slack incoming webhook互換）として扱い、
// メッセージ配送の詳細は外部能力とする。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Notifier は通知チャネルへの送信インターフェース。
// send(text) -> ok|fail の能力のみを仮定する。
type Notifier interface {
	// Send はテキストを通知チャネルに送信する。
	// チャネル到達不能・認証エラーなどの失敗はエラーとして返す。
	Send(ctx context.Context, text string) error
}

// webhookPayload はWebhookに送信するJSONボディ。
type webhookPayload struct {
	Text string `json:"text"`
}

// WebhookNotifier はHTTP WebhookへのJSON POSTで通知を送信する。
type WebhookNotifier struct {
	httpClient *http.Client
	logger     *slog.Logger
	webhookURL string
}

// NewWebhookNotifier はWebhookNotifierを生成する。
// httpClientにはタイムアウト設定済みのクライアントを渡すこと。
func NewWebhookNotifier(httpClient *http.Client, logger *slog.Logger, webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: httpClient,
		logger:     logger,
		webhookURL: webhookURL,
	}
}

// Send はテキストをWebhookに送信する。
// 2xx以外のステータスは送信失敗として扱う。
func (n *WebhookNotifier) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(webhookPayload{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("webhook request failed",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	// エラー詳細はログのみに残し、本文はクライアントに返さない
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.logger.Error("webhook returned error status",
			slog.Int("http_status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// compile-time interface check
var _ Notifier = (*WebhookNotifier)(nil)

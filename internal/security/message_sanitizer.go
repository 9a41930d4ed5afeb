// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MessageSanitizerService は匿名の訪問者が入力したリマインダーメッセージを
// 通知チャネルへ転送する前にサニタイズする。bluemondayの許可リストベースの
// ポリシーでHTMLタグをすべて除去し、プレーンテキストのみを通過させる。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MessageSanitizerService は訪問者入力テキストのサニタイズ機能のインターフェースを定義する。
type MessageSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグをすべて除去し、
	// エンティティをデコードしたプレーンテキストを返す。
	// 前後の空白は除去する。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// messageSanitizer はMessageSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type messageSanitizer struct {
	policy *bluemonday.Policy
}

// NewMessageSanitizer はMessageSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しない（テキストのみ通過）。
func NewMessageSanitizer() *messageSanitizer {
	return &messageSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグを除去したプレーンテキストを返す。
// bluemondayはテキストをエンティティエスケープして返すため、
// 通知チャネルにはデコード済みの生テキストを渡す。
func (s *messageSanitizer) Sanitize(raw string) string {
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// compile-time interface check
var _ MessageSanitizerService = (*messageSanitizer)(nil)

package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, meal, quota, system
	Action   string // ユーザー向け対処方法

	// RetryAfter はレート制限エラーの場合のみ設定される再試行可能までの秒数。
	RetryAfter int
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	ErrCodeAuthorizationDenied    = "AUTHORIZATION_DENIED"
	ErrCodeEmailNotVerified       = "EMAIL_NOT_VERIFIED"
	ErrCodeMealNotFound           = "MEAL_NOT_FOUND"
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
	ErrCodeRateLimitExceeded      = "RATE_LIMIT_EXCEEDED"
	ErrCodeDeliveryFailed         = "DELIVERY_FAILED"
	ErrCodeInternal               = "INTERNAL_ERROR"
)

// NewAuthenticationRequiredError は未認証エラーを生成する。
// セッションが存在しない、または期限切れの場合に使用する。
func NewAuthenticationRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthenticationRequired,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewAuthorizationDeniedError は認可拒否エラーを生成する。
// 外部IdPでの本人確認には成功したが、許可リストに登録された
// 運用者ではない場合に使用する。認証失敗とは区別する。
func NewAuthorizationDeniedError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeAuthorizationDenied,
		Message:  fmt.Sprintf("このアカウントには操作権限がありません: %s", email),
		Category: "auth",
		Action:   "許可されたアカウントでログインしてください。",
	}
}

// NewEmailNotVerifiedError はメールアドレス未検証エラーを生成する。
func NewEmailNotVerifiedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotVerified,
		Message:  "メールアドレスがIdPで検証されていません。",
		Category: "auth",
		Action:   "IdP側でメールアドレスを検証してから再度ログインしてください。",
	}
}

// NewMealNotFoundError は食事レコード未検出エラーを生成する。
func NewMealNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeMealNotFound,
		Message:  fmt.Sprintf("指定された食事レコードが見つかりません: %d", id),
		Category: "meal",
		Action:   "レコードIDを確認してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト形式を確認してください。",
	}
}

// NewRateLimitExceededError はリマインダー送信の回数制限超過エラーを生成する。
// retryAfterSecは現在のウィンドウが閉じるまでの残り秒数。
func NewRateLimitExceededError(retryAfterSec int) *APIError {
	return &APIError{
		Code:       ErrCodeRateLimitExceeded,
		Message:    fmt.Sprintf("リマインダーの送信回数が上限に達しました。%d秒後に再試行できます。", retryAfterSec),
		Category:   "quota",
		Action:     "しばらく待ってから再度お試しください。",
		RetryAfter: retryAfterSec,
	}
}

// NewDeliveryFailedError は通知チャネルへの送信失敗エラーを生成する。
// レート制限による拒否とは区別してクライアントに返す。
func NewDeliveryFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeDeliveryFailed,
		Message:  "リマインダーの送信に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

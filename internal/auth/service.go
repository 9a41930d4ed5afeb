// Package auth はOAuth認証フロー、許可リスト判定、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/mealman/internal/model"
	"github.com/hitoshi/mealman/internal/repository"
)

// VerifiedIdentity はOAuthプロバイダーが本人確認を終えたユーザー情報を表す。
type VerifiedIdentity struct {
	Email         string
	Name          string
	EmailVerified bool
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// トークン交換の詳細は外部能力として扱い、検証済みのemail+nameのみを受け取る。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、検証済みユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*VerifiedIdentity, error)
}

// AllowFunc は検証済みメールアドレスがセッション発行を許可されるかを判定する。
// 現在は単一メールアドレスの許可リストだが、複数管理者への拡張は
// この述語の差し替えだけで済む。
type AllowFunc func(email string) bool

// SingleEmailAllowFunc は単一メールアドレスのみを許可するAllowFuncを返す。
// 比較は前後の空白を除去し大文字小文字を無視して行う。
func SingleEmailAllowFunc(allowedEmail string) AllowFunc {
	normalized := normalizeEmail(allowedEmail)
	return func(email string) bool {
		return normalizeEmail(email) == normalized
	}
}

// normalizeEmail はメールアドレスを比較用に正規化する。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証・認可に関するビジネスロジックを提供する。
// 食事レコードを変更するすべての操作はこのサービスが発行したセッションを必要とする。
type Service struct {
	oauth       OAuthProvider
	sessionRepo repository.SessionRepository
	isAllowed   AllowFunc
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	sessionRepo repository.SessionRepository,
	isAllowed AllowFunc,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		sessionRepo: sessionRepo,
		isAllowed:   isAllowed,
		config:      config,
		now:         time.Now,
	}
}

// GetLoginURL はOAuth認証URLを生成する。ローカル状態は変更しない。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// 検証済みメールアドレスが許可リストと一致した場合のみセッションを作成する。
// 本人確認には成功したが許可されていないユーザーにはAUTHORIZATION_DENIEDを返し、
// セッションは一切作成しない（認証失敗とは区別する）。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	// 1. 認可コードをトークンに交換し、検証済みユーザー情報を取得
	identity, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. IdP側でメールアドレスが検証されていることを確認
	if !identity.EmailVerified {
		return nil, model.NewEmailNotVerifiedError()
	}

	// 3. 許可リスト判定。失敗は期待される結果なのでfaultログにはしない
	if !s.isAllowed(identity.Email) {
		slog.Warn("login denied: email not in allow list",
			slog.String("email", identity.Email),
		)
		return nil, model.NewAuthorizationDeniedError(identity.Email)
	}

	// 4. セッションを発行
	session, err := s.createSession(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("admin logged in",
		slog.String("email", session.Email),
		slog.Time("expires_at", session.ExpiresAt),
	)

	return session, nil
}

// SessionStatus は現在のセッション状態を表す。
type SessionStatus struct {
	Authenticated bool
	Email         string
	Name          string
}

// Status はセッショントークンから認証状態を返す。
// 不存在・期限切れはエラーではなく未認証として報告する。
func (s *Service) Status(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if sessionID == "" {
		return &SessionStatus{Authenticated: false}, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return &SessionStatus{Authenticated: false}, nil
	}

	return &SessionStatus{
		Authenticated: true,
		Email:         session.Email,
		Name:          session.Name,
	}, nil
}

// Logout はセッションを破棄する。存在しないセッションに対しても成功する（冪等）。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("admin logged out", slog.String("session_id", sessionID))
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, identity *VerifiedIdentity) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		Email:     identity.Email,
		Name:      identity.Name,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

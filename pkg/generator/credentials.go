package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/domain"
)

// CredentialSelector はホスト環境が提供する API キー選択の仕組みです。
// キーの保管自体はこちらでは扱わないのだ。
type CredentialSelector interface {
	HasSelectedKey(ctx context.Context) bool
	RequestSelection(ctx context.Context) error
}

// CredentialState は認証情報のライフサイクルです。
type CredentialState int

const (
	CredentialUnset CredentialState = iota
	CredentialSelected
	CredentialRevoked
)

func (s CredentialState) String() string {
	switch s {
	case CredentialSelected:
		return "selected"
	case CredentialRevoked:
		return "revoked"
	default:
		return "unset"
	}
}

// Credentials は各生成呼び出しに明示的に渡す認証コンテキストです。
type Credentials struct {
	mu       sync.Mutex
	selector CredentialSelector
	state    CredentialState
}

// NewCredentials は未選択状態の Credentials を生成します。
func NewCredentials(selector CredentialSelector) *Credentials {
	return &Credentials{selector: selector}
}

// State は現在の状態を返します。
func (c *Credentials) State() CredentialState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selected は有効なキーが選択済みとみなせるかを返します。
func (c *Credentials) Selected() bool {
	return c.State() == CredentialSelected
}

// Ensure はキーが選択されていることを確認し、無ければ選択を要求します。
func (c *Credentials) Ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CredentialSelected {
		return nil
	}
	if c.selector == nil {
		return authError("credentials", errors.New("credential selector is not configured"))
	}
	if c.selector.HasSelectedKey(ctx) {
		c.state = CredentialSelected
		return nil
	}

	slog.InfoContext(ctx, "APIキーが選択されていないため選択を要求します")
	if err := c.selector.RequestSelection(ctx); err != nil {
		return authError("credentials", fmt.Errorf("APIキーの選択に失敗しました: %w", err))
	}
	if !c.selector.HasSelectedKey(ctx) {
		return authError("credentials", adapters.ErrMissingAPIKey)
	}
	c.state = CredentialSelected
	return nil
}

// Revoke は認証エラーを受けてキーを未選択扱いに戻します。
func (c *Credentials) Revoke() {
	c.mu.Lock()
	c.state = CredentialRevoked
	c.mu.Unlock()
}

// StaticKeySelector は環境変数などで渡された固定キーを使うセレクタです。
type StaticKeySelector struct {
	Key string
}

func (s StaticKeySelector) HasSelectedKey(context.Context) bool {
	return s.Key != ""
}

// RequestSelection は対話的に選ばせる手段が無いので、設定を促すエラーを返すのだ。
func (s StaticKeySelector) RequestSelection(context.Context) error {
	if s.Key != "" {
		return nil
	}
	return errors.New("環境変数 GEMINI_API_KEY を設定してください")
}

// authMarkers はプロバイダのエラー文のうち、認証系の失敗を示すものです。
var authMarkers = []string{
	"API key not valid",
	"API_KEY_INVALID",
	"Requested entity was not found",
	"PERMISSION_DENIED",
	"UNAUTHENTICATED",
}

// IsAuthFailure はエラーが認証情報の欠落・不正・未検出によるものかを判定します。
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, adapters.ErrMissingAPIKey) {
		return true
	}
	var gErr *domain.GenerationError
	if errors.As(err, &gErr) && gErr.IsAuth() {
		return true
	}
	msg := err.Error()
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func authError(op string, cause error) *domain.GenerationError {
	return &domain.GenerationError{
		Operation: op,
		Kind:      domain.FailureAuth,
		Reason:    domain.ReasonRequestFailed,
		Message:   domain.MsgAuthFailed,
		Cause:     cause,
	}
}

package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/domain"
)

// Options は Orchestrator の挙動設定です。
type Options struct {
	// PollInterval は動画生成オペレーションのポーリング間隔です。
	PollInterval time.Duration
	// PollTimeout が正の値ならポーリングをその時間で打ち切ります。0 なら無制限なのだ。
	PollTimeout time.Duration
}

// Orchestrator は確定したプロンプトから画像・動画・音声の生成を依頼し、結果を描画可能な参照に変換します。
type Orchestrator struct {
	capability adapters.Capability
	blobs      *asset.BlobStore
	opts       Options
}

// NewOrchestrator は Orchestrator を生成します。
func NewOrchestrator(capability adapters.Capability, blobs *asset.BlobStore, opts Options) (*Orchestrator, error) {
	if capability == nil {
		return nil, fmt.Errorf("capability は必須です")
	}
	if blobs == nil {
		return nil, fmt.Errorf("BlobStore は必須です")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Orchestrator{capability: capability, blobs: blobs, opts: opts}, nil
}

// Blobs は生成物を保持している BlobStore を返します。
func (o *Orchestrator) Blobs() *asset.BlobStore {
	return o.blobs
}

// fail はリモート呼び出しの失敗を記録し、ユーザー向けの GenerationError に変換します。
// 認証系の失敗なら認証コンテキストを未選択に戻すのだ。
func (o *Orchestrator) fail(ctx context.Context, creds *Credentials, op, genericMsg string, reason domain.FailureReason, cause error) error {
	if creds != nil && IsAuthFailure(cause) {
		creds.Revoke()
		slog.ErrorContext(ctx, "認証エラーにより生成に失敗しました", "operation", op, "error", cause)
		gErr := authError(op, cause)
		gErr.Reason = reason
		return gErr
	}

	slog.ErrorContext(ctx, "生成に失敗しました", "operation", op, "reason", reason.String(), "error", cause)
	return &domain.GenerationError{
		Operation: op,
		Kind:      domain.FailureGeneric,
		Reason:    reason,
		Message:   genericMsg,
		Cause:     cause,
	}
}

func requirePrompt(prompt string) error {
	if prompt == "" {
		return &domain.ValidationError{Field: "prompt", Message: domain.MsgPromptRequired}
	}
	return nil
}

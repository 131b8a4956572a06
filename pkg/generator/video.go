package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/domain"

	"golang.org/x/time/rate"
)

const opVideo = "video"

// GenerateVideo はストーリーボードの先頭3枚を画風のアンカーにして 720p / 16:9 の動画を生成します。
// 完了までポーリングし、取得した動画を blob 参照として返すのだ。
func (o *Orchestrator) GenerateVideo(ctx context.Context, creds *Credentials, prompt string, images []domain.ImagePayload) (domain.GeneratedAsset, error) {
	if err := requirePrompt(prompt); err != nil {
		return domain.GeneratedAsset{}, err
	}
	if len(images) == 0 {
		return domain.GeneratedAsset{}, &domain.ValidationError{Field: "images", Message: domain.MsgStoryboardRequired}
	}
	if err := creds.Ensure(ctx); err != nil {
		return domain.GeneratedAsset{}, err
	}

	if len(images) > domain.MaxStoryboardFrames {
		slog.WarnContext(ctx, "ストーリーボードの画像が上限を超えたため先頭のみ使用します",
			"supplied", len(images), "used", domain.MaxStoryboardFrames, "dropped", len(images)-domain.MaxStoryboardFrames)
		images = images[:domain.MaxStoryboardFrames]
	}

	op, err := o.capability.StartVideo(ctx, adapters.VideoRequest{
		Prompt:          prompt,
		ReferenceImages: images,
		Resolution:      VideoResolution,
		AspectRatio:     SceneAspectRatio,
	})
	if err != nil {
		return domain.GeneratedAsset{}, o.fail(ctx, creds, opVideo, domain.MsgVideoFailed, domain.ReasonRequestFailed, err)
	}

	op, err = o.waitForVideo(ctx, op)
	if err != nil {
		var tErr *domain.TimeoutError
		if errors.As(err, &tErr) {
			slog.ErrorContext(ctx, "動画生成のポーリングがタイムアウトしました", "operation", op.Name, "elapsed", tErr.Elapsed)
			return domain.GeneratedAsset{}, tErr
		}
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "動画生成のポーリングを中断しました", "operation", op.Name)
			return domain.GeneratedAsset{}, fmt.Errorf("動画生成のポーリングを中断しました: %w", ctx.Err())
		}
		return domain.GeneratedAsset{}, o.fail(ctx, creds, opVideo, domain.MsgVideoFailed, domain.ReasonRequestFailed, err)
	}
	if op.ErrorMessage != "" {
		return domain.GeneratedAsset{}, o.fail(ctx, creds, opVideo, domain.MsgVideoFailed, domain.ReasonRequestFailed,
			fmt.Errorf("video operation %s failed: %s", op.Name, op.ErrorMessage))
	}
	if op.URI == "" {
		return domain.GeneratedAsset{}, o.fail(ctx, creds, opVideo, domain.MsgVideoFailed, domain.ReasonNoPayload,
			fmt.Errorf("video operation %s finished without a result URI", op.Name))
	}

	payload, err := o.capability.FetchVideo(ctx, op.URI)
	if err != nil {
		return domain.GeneratedAsset{}, o.fail(ctx, creds, opVideo, domain.MsgVideoFailed, domain.ReasonRequestFailed, err)
	}
	if len(payload.Data) == 0 {
		return domain.GeneratedAsset{}, o.fail(ctx, creds, opVideo, domain.MsgVideoFailed, domain.ReasonNoPayload,
			errors.New("fetched video is empty"))
	}

	mimeType := payload.MIMEType
	if mimeType == "" {
		mimeType = VideoMIMEType
	}
	ref := o.blobs.Put(asset.VideoFileName, mimeType, payload.Data)
	slog.InfoContext(ctx, "動画を生成しました", "operation", op.Name, "ref", ref, "bytes", len(payload.Data))

	return domain.GeneratedAsset{
		Kind:     domain.AssetVideo,
		URI:      ref,
		MIMEType: mimeType,
		Filename: asset.VideoFileName,
	}, nil
}

// waitForVideo は一定間隔でオペレーションをポーリングし、完了を待ちます。
// ctx がキャンセルされると待機中でもすぐに戻るのだ。
func (o *Orchestrator) waitForVideo(ctx context.Context, op adapters.VideoOperation) (adapters.VideoOperation, error) {
	pollCtx := ctx
	if o.opts.PollTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, o.opts.PollTimeout)
		defer cancel()
	}

	// 最初のトークンを消費しておき、初回のポーリングも1間隔待つのだ
	limiter := rate.NewLimiter(rate.Every(o.opts.PollInterval), 1)
	limiter.Allow()

	start := time.Now()
	attempt := 0
	for !op.Done {
		if err := waitToken(pollCtx, limiter); err != nil {
			return op, o.pollError(ctx, start, err)
		}
		attempt++

		latest, err := o.capability.PollVideo(pollCtx, op)
		if err != nil {
			if pollCtx.Err() != nil {
				return op, o.pollError(ctx, start, err)
			}
			return op, err
		}
		op = latest
		slog.InfoContext(ctx, "動画生成の完了を待っています", "operation", op.Name, "attempt", attempt, "done", op.Done, "elapsed", time.Since(start).Round(time.Second))
	}
	return op, nil
}

// waitToken は次のポーリング時刻まで待ちます。
// 締め切りより先に諦める limiter.Wait と違い、ctx が実際に終わるまで待つのだ。
func waitToken(ctx context.Context, limiter *rate.Limiter) error {
	r := limiter.Reserve()
	timer := time.NewTimer(r.Delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pollError は待機中の失敗を、呼び出し元の中断かタイムアウトかに振り分けます。
func (o *Orchestrator) pollError(parent context.Context, start time.Time, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if o.opts.PollTimeout > 0 {
		return &domain.TimeoutError{Operation: opVideo, Elapsed: time.Since(start)}
	}
	return err
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/audio"
	"github.com/shouni/go-story-weaver/pkg/domain"
)

const (
	opVoice   = "voice"
	opPreview = "voice_preview"
)

// GenerateVoiceOver は台本を指定ボイスで読み上げ、WAV の blob 参照として返します。
func (o *Orchestrator) GenerateVoiceOver(ctx context.Context, creds *Credentials, script string, voice domain.VoicePreset) (domain.GeneratedAsset, error) {
	if strings.TrimSpace(script) == "" {
		return domain.GeneratedAsset{}, &domain.ValidationError{Field: "script", Message: domain.MsgScriptRequired}
	}
	wav, err := o.synthesize(ctx, creds, opVoice, domain.MsgVoiceFailed, script, voice)
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	ref := o.blobs.Put(asset.VoiceOverFileName, audio.MIMEType, wav)
	slog.InfoContext(ctx, "ボイスオーバーを生成しました", "voice", voice, "ref", ref, "duration", audio.Duration(len(wav)-audio.HeaderSize))
	return domain.GeneratedAsset{
		Kind:     domain.AssetVoice,
		URI:      ref,
		MIMEType: audio.MIMEType,
		Filename: asset.VoiceOverFileName,
	}, nil
}

// PreviewVoice は定型文で試聴用の音声を生成し、すぐに player で再生します。
func (o *Orchestrator) PreviewVoice(ctx context.Context, creds *Credentials, voice domain.VoicePreset, player Player) error {
	if player == nil {
		return fmt.Errorf("player は必須です")
	}
	wav, err := o.synthesize(ctx, creds, opPreview, domain.MsgPreviewFailed, PreviewScript, voice)
	if err != nil {
		return err
	}
	if err := player.Play(ctx, wav); err != nil {
		return o.fail(ctx, nil, opPreview, domain.MsgPreviewFailed, domain.ReasonRequestFailed,
			fmt.Errorf("プレビュー音声の再生に失敗しました: %w", err))
	}
	return nil
}

// synthesize は音声合成を依頼し、返ってきた生 PCM を WAV に変換します。
func (o *Orchestrator) synthesize(ctx context.Context, creds *Credentials, op, genericMsg, text string, voice domain.VoicePreset) ([]byte, error) {
	// 空文字は既定のボイスに解決してから送るのだ
	voice, err := domain.ParseVoicePreset(string(voice))
	if err != nil {
		return nil, err
	}
	if err := creds.Ensure(ctx); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "音声合成を開始します", "operation", op, "voice", voice, "text_length", len(text))
	res, err := o.capability.GenerateSpeech(ctx, adapters.SpeechRequest{Text: text, Voice: string(voice)})
	if err != nil {
		return nil, o.fail(ctx, creds, op, genericMsg, domain.ReasonRequestFailed, err)
	}
	if len(res.PCM) == 0 {
		return nil, o.fail(ctx, creds, op, genericMsg, domain.ReasonNoPayload, errors.New("response contained no audio payload"))
	}
	// 16bit サンプルなので奇数バイトは壊れたデータなのだ
	if len(res.PCM)%2 != 0 {
		return nil, o.fail(ctx, creds, op, genericMsg, domain.ReasonRequestFailed,
			&domain.DecodeError{Format: "PCM", Cause: fmt.Errorf("odd byte length %d", len(res.PCM))})
	}

	return audio.EncodeWAV(res.PCM), nil
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-story-weaver/internal/builder"
	"github.com/shouni/go-story-weaver/internal/config"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/domain"
	"github.com/shouni/go-story-weaver/pkg/generator"
)

// setupAppContext はワークフローを構築し、CLI で指定された入力を読み込むのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	if err := builder.LoadSession(ctx, appCtx); err != nil {
		return nil, err
	}
	return appCtx, nil
}

// ExecuteCompose はロスターとシーンからプロンプトを合成し、out に書き出します。
func ExecuteCompose(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	return runCompose(ctx, appCtx, out)
}

// ExecuteImage はプロンプトから画像を生成して保存します。
func ExecuteImage(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = runImage(ctx, appCtx)
	return err
}

// ExecuteVideo はプロンプトとストーリーボードから動画を生成して保存します。
func ExecuteVideo(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = runVideo(ctx, appCtx)
	return err
}

// ExecuteVoice は台本からボイスオーバーを生成して保存します。
func ExecuteVoice(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = runVoice(ctx, appCtx)
	return err
}

// ExecutePreview はボイスを定型文で試聴します。
func ExecutePreview(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	return runPreview(ctx, appCtx)
}

func runCompose(ctx context.Context, appCtx *builder.AppContext, out io.Writer) error {
	prompt, err := composePrompt(ctx, appCtx)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, prompt); err != nil {
		return fmt.Errorf("プロンプトの出力に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "プロンプトを合成しました", "ai", appCtx.Options.UseAI, "length", len(prompt))
	return nil
}

// composePrompt は --ai の有無に応じてテンプレートか AI でプロンプトを合成します。
// 合成結果は Manager の現在のプロンプトにもなるのだ。
func composePrompt(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	m := appCtx.Manager
	if appCtx.Options.UseAI {
		return m.ComposeAI(ctx)
	}
	res, err := m.ComposeTemplate()
	if err != nil {
		return "", err
	}
	return res.Prompt, nil
}

// ensurePrompt はプロンプトが未指定のとき、読み込んだロスターとシーンから合成します。
func ensurePrompt(ctx context.Context, appCtx *builder.AppContext) error {
	if strings.TrimSpace(appCtx.Manager.Prompt()) != "" {
		return nil
	}
	prompt, err := composePrompt(ctx, appCtx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "プロンプト未指定のためシーンから合成しました", "ai", appCtx.Options.UseAI, "length", len(prompt))
	return nil
}

func runImage(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	if err := ensurePrompt(ctx, appCtx); err != nil {
		return "", err
	}
	a, err := appCtx.Manager.GenerateImage(ctx)
	if err != nil {
		return "", err
	}
	_, data, err := asset.DecodeDataURL(a.URI)
	if err != nil {
		return "", fmt.Errorf("生成画像の復元に失敗しました: %w", err)
	}
	return writeOutput(ctx, appCtx.Options.OutputDir, a.Filename, data)
}

func runVideo(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	if err := ensurePrompt(ctx, appCtx); err != nil {
		return "", err
	}
	a, err := appCtx.Manager.GenerateVideo(ctx)
	if err != nil {
		return "", err
	}
	return writeBlob(ctx, appCtx, a)
}

func runVoice(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	script := appCtx.Options.Script
	if appCtx.Options.ScriptFile != "" {
		text, err := builder.ReadTextInput(appCtx.Options.ScriptFile)
		if err != nil {
			return "", fmt.Errorf("台本ファイルの読み込みに失敗しました: %w", err)
		}
		script = text
	}
	voice, err := domain.ParseVoicePreset(appCtx.Options.Voice)
	if err != nil {
		return "", err
	}

	a, err := appCtx.Manager.GenerateVoiceOver(ctx, script, voice)
	if err != nil {
		return "", err
	}
	return writeBlob(ctx, appCtx, a)
}

func runPreview(ctx context.Context, appCtx *builder.AppContext) error {
	voice, err := domain.ParseVoicePreset(appCtx.Options.Voice)
	if err != nil {
		return err
	}
	return appCtx.Manager.PreviewVoice(ctx, voice, generator.FilePlayer{Dir: appCtx.Options.OutputDir})
}

func writeBlob(ctx context.Context, appCtx *builder.AppContext, a domain.GeneratedAsset) (string, error) {
	blob, err := appCtx.Manager.Blob(a.URI)
	if err != nil {
		return "", err
	}
	return writeOutput(ctx, appCtx.Options.OutputDir, a.Filename, blob.Data)
}

// writeOutput は生成物を出力ディレクトリに固定のファイル名で保存するのだ。
func writeOutput(ctx context.Context, dir, fileName string, data []byte) (string, error) {
	path, err := asset.ResolveOutputPath(dir, fileName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("生成物の保存に失敗しました (%s): %w", path, err)
	}
	slog.InfoContext(ctx, "生成物を保存しました", "path", path, "bytes", len(data))
	return path, nil
}

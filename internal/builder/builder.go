package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-story-weaver/examples"
	"github.com/shouni/go-story-weaver/internal/config"
	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/domain"
	"github.com/shouni/go-story-weaver/pkg/workflow"
)

// BuildAppContext は設定からワークフローを構築します。capability が nil なら Gemini に接続するのだ。
func BuildAppContext(ctx context.Context, cfg *config.Config, capability adapters.Capability) (*AppContext, error) {
	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:     cfg.Workflow,
		Capability: capability,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}
	return NewAppContext(cfg, manager), nil
}

// LoadSession は CLI で指定されたロスター・シーン・参照画像・ストーリーボードをセッションに読み込みます。
func LoadSession(ctx context.Context, appCtx *AppContext) error {
	opts := appCtx.Options
	m := appCtx.Manager

	// 入力が何も無ければ同梱のサンプルで動かすのだ
	if opts.RosterFile == "" && opts.SceneFile == "" && opts.Prompt == "" && opts.PromptFile == "" {
		if err := examples.LoadSample(m.Registry(), m.Scene()); err != nil {
			return err
		}
		slog.InfoContext(ctx, "同梱のサンプルロスターとシーンを使います", "characters", m.Registry().Len())
	}

	if opts.RosterFile != "" {
		n, err := m.Registry().LoadRosterFile(opts.RosterFile)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "ロスターを読み込みました", "path", opts.RosterFile, "characters", n)
	}

	if opts.SceneFile != "" {
		f, err := os.Open(opts.SceneFile)
		if err != nil {
			return fmt.Errorf("シーンファイルの読み込みに失敗しました: %w", err)
		}
		defer f.Close()
		scene, err := domain.LoadScene(f)
		if err != nil {
			return err
		}
		m.Scene().Replace(scene)
		slog.InfoContext(ctx, "シーンを読み込みました", "path", opts.SceneFile, "actors", len(scene.Actors))
	}

	if opts.ReferenceImage != "" {
		img, err := asset.LoadImage(opts.ReferenceImage)
		if err != nil {
			return err
		}
		m.Scene().SetReferenceImage(&img)
	}

	if len(opts.Images) > 0 {
		images, err := asset.LoadImages(ctx, opts.Images)
		if err != nil {
			return err
		}
		for _, img := range images {
			m.Storyboard().Add(img)
		}
	}

	if opts.PromptFile != "" {
		text, err := ReadTextInput(opts.PromptFile)
		if err != nil {
			return fmt.Errorf("プロンプトファイルの読み込みに失敗しました: %w", err)
		}
		m.SetPrompt(text)
	}
	if opts.Prompt != "" {
		m.SetPrompt(opts.Prompt)
	}
	return nil
}

// ReadTextInput はファイルか標準入力（"-"）からテキストを読み込み、前後の空白を落として返します。
func ReadTextInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		if !isStdin() {
			return "", fmt.Errorf("標準入力にデータが渡されていません")
		}
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-story-weaver/internal/config"
	"github.com/shouni/go-story-weaver/pkg/adapters"
	pkgconfig "github.com/shouni/go-story-weaver/pkg/config"
)

type nopCapability struct{}

func (nopCapability) GenerateText(context.Context, adapters.TextRequest) (adapters.TextResult, error) {
	return adapters.TextResult{}, nil
}

func (nopCapability) GenerateImages(context.Context, adapters.ImageRequest) (adapters.ImageResult, error) {
	return adapters.ImageResult{}, nil
}

func (nopCapability) StartVideo(context.Context, adapters.VideoRequest) (adapters.VideoOperation, error) {
	return adapters.VideoOperation{}, nil
}

func (nopCapability) PollVideo(_ context.Context, op adapters.VideoOperation) (adapters.VideoOperation, error) {
	return op, nil
}

func (nopCapability) FetchVideo(context.Context, string) (adapters.MediaPayload, error) {
	return adapters.MediaPayload{}, nil
}

func (nopCapability) GenerateSpeech(context.Context, adapters.SpeechRequest) (adapters.SpeechResult, error) {
	return adapters.SpeechResult{}, nil
}

func build(t *testing.T, opts config.GenerateOptions) *AppContext {
	t.Helper()
	cfg := &config.Config{Workflow: pkgconfig.NewConfig("test-key")}
	cfg.Apply(opts)
	appCtx, err := BuildAppContext(context.Background(), cfg, nopCapability{})
	if err != nil {
		t.Fatalf("AppContext の構築に失敗しました: %v", err)
	}
	return appCtx
}

func TestLoadSession(t *testing.T) {
	t.Run("入力が無ければサンプルを読み込むこと", func(t *testing.T) {
		appCtx := build(t, config.GenerateOptions{})
		if err := LoadSession(context.Background(), appCtx); err != nil {
			t.Fatalf("読み込みに失敗しました: %v", err)
		}
		if appCtx.Manager.Registry().Len() != 2 {
			t.Errorf("サンプルのロスターが読み込まれていません: %d件", appCtx.Manager.Registry().Len())
		}
		if appCtx.Manager.Scene().Details().Location != "Cave" {
			t.Errorf("サンプルのシーンが読み込まれていません: %+v", appCtx.Manager.Scene().Details())
		}
	})

	t.Run("プロンプト指定時はサンプルを読み込まないこと", func(t *testing.T) {
		appCtx := build(t, config.GenerateOptions{Prompt: "a quiet harbor"})
		if err := LoadSession(context.Background(), appCtx); err != nil {
			t.Fatalf("読み込みに失敗しました: %v", err)
		}
		if appCtx.Manager.Registry().Len() != 0 {
			t.Errorf("サンプルが読み込まれました: %d件", appCtx.Manager.Registry().Len())
		}
		if appCtx.Manager.Prompt() != "a quiet harbor" {
			t.Errorf("プロンプトが設定されていません: %q", appCtx.Manager.Prompt())
		}
	})

	t.Run("存在しないロスターはエラーになること", func(t *testing.T) {
		appCtx := build(t, config.GenerateOptions{RosterFile: filepath.Join(t.TempDir(), "missing.json")})
		if err := LoadSession(context.Background(), appCtx); err == nil {
			t.Error("エラーが発生しませんでした")
		}
	})
}

func TestReadTextInput(t *testing.T) {
	p := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(p, []byte("\n  a foggy dawn  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadTextInput(p)
	if err != nil {
		t.Fatalf("読み込みに失敗しました: %v", err)
	}
	if got != "a foggy dawn" {
		t.Errorf("期待値 %q, 実際の値 %q", "a foggy dawn", got)
	}
}

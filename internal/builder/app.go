package builder

import (
	"github.com/shouni/go-story-weaver/internal/config"
	"github.com/shouni/go-story-weaver/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各実行関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（入力ファイル、ボイスなど）。
	Manager *workflow.Manager      // Managerは、ロスター・シーン・生成結果を保持するセッションです。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config, manager *workflow.Manager) *AppContext {
	return &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Manager: manager,
	}
}

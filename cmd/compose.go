package cmd

import (
	"log/slog"

	"github.com/shouni/go-story-weaver/internal/pipeline"

	"github.com/spf13/cobra"
)

// composeCmd はロスターとシーンからプロンプトを合成して標準出力に書くサブコマンドなのだ。
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "ロスターとシーンから画像生成用のプロンプトを合成するのだ。",
	Long: `ロスターとシーン記述を読み込み、プロンプトを合成して標準出力に書き出すのだ。
--ai を付けるとテキストモデルに清書させます（GEMINI_API_KEY が必要なのだ）。`,
	RunE: composeCommand,
}

func composeCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	slog.Info("プロンプト合成を開始するのだ",
		"roster", cfg.Options.RosterFile,
		"scene", cfg.Options.SceneFile,
		"ai", cfg.Options.UseAI)

	return pipeline.ExecuteCompose(cmd.Context(), cfg, cmd.OutOrStdout())
}

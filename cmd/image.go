package cmd

import (
	"log/slog"

	"github.com/shouni/go-story-weaver/internal/pipeline"

	"github.com/spf13/cobra"
)

// imageCmd はプロンプトから 16:9 のシーン画像を1枚生成するサブコマンドなのだ。
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "プロンプトからシーン画像を生成して保存するのだ。",
	Long: `--prompt か --prompt-file で渡したプロンプト、どちらも無ければロスターとシーンから合成したプロンプトで、
シーン画像を1枚生成して出力ディレクトリに保存するのだ。`,
	RunE: imageCommand,
}

func imageCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	slog.Info("画像生成モードを起動するのだ！",
		"output_dir", cfg.Options.OutputDir,
		"image_model", cfg.Workflow.ImageModel)

	return pipeline.ExecuteImage(cmd.Context(), cfg)
}

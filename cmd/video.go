package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-story-weaver/internal/pipeline"

	"github.com/spf13/cobra"
)

// videoCmd はストーリーボード画像を画風のアンカーにして動画を生成するサブコマンドなのだ。
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "ストーリーボード画像とプロンプトから動画を生成するのだ。",
	Long: `--images で渡した画像（先頭3枚まで）を参照にして 720p の動画を生成するのだ。
生成には数分かかることがあり、完了までポーリングを続けます。Ctrl+C で中断できるのだ。`,
	RunE: videoCommand,
}

func init() {
	videoCmd.Flags().StringSliceVar(&opts.Images, "images", nil, "ストーリーボードに使う画像のパス（カンマ区切り、並び順どおりに使うのだ）。")
}

func videoCommand(cmd *cobra.Command, args []string) error {
	if len(opts.Images) == 0 {
		return fmt.Errorf("ストーリーボード画像（--images）を1枚以上指定してほしいのだ")
	}
	cfg := loadConfig()

	slog.Info("動画生成モードを起動するのだ！",
		"images", len(cfg.Options.Images),
		"video_model", cfg.Workflow.VideoModel,
		"poll_interval", cfg.Workflow.PollInterval,
		"poll_timeout", cfg.Workflow.PollTimeout)

	return pipeline.ExecuteVideo(cmd.Context(), cfg)
}

package cmd

import (
	"github.com/shouni/go-story-weaver/internal/builder"
	"github.com/shouni/go-story-weaver/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd はセッションを HTTP API として公開するサブコマンドなのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "ロスター編集から生成までを HTTP API として公開するのだ。",
	Long: `1つのセッション（ロスター、シーン、ストーリーボード、プロンプト、生成結果）をメモリ上に持ち、
HTTP 経由で編集・生成できるようにするのだ。--roster や --scene を渡すと起動時に読み込みます。`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&opts.ServerAddr, "addr", "", "待ち受けるアドレスなのだ（既定は SERVER_ADDR か :8080）。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	appCtx, err := builder.BuildAppContext(ctx, cfg, nil)
	if err != nil {
		return err
	}
	if cfg.Options.RosterFile != "" || cfg.Options.SceneFile != "" {
		if err := builder.LoadSession(ctx, appCtx); err != nil {
			return err
		}
	}
	return server.Run(ctx, cfg.ServerAddr, appCtx.Manager)
}

package cmd

import (
	"log/slog"

	"github.com/shouni/go-story-weaver/internal/config"
	"github.com/shouni/go-story-weaver/internal/pipeline"

	"github.com/spf13/cobra"
)

// voiceCmd は台本からボイスオーバーを生成するサブコマンドなのだ。
var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "台本からボイスオーバーの WAV を生成するのだ。",
	Long: `--script か --script-file で渡した台本を、選んだボイスで読み上げて WAV として保存するのだ。
ボイスは Kore, Puck, Charon, Fenrir, Zephyr から選べます。`,
	RunE: voiceCommand,
}

// previewCmd は定型文でボイスを試聴するサブコマンドなのだ。
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "定型文でボイスを試聴するのだ。",
	Long:  `選んだボイスで定型文を読み上げ、プレビュー用の WAV を出力ディレクトリに書き出すのだ。`,
	RunE:  previewCommand,
}

func init() {
	voiceCmd.PersistentFlags().StringVar(&opts.Voice, "voice", config.DefaultVoice, "読み上げに使うボイスなのだ。")
	voiceCmd.Flags().StringVar(&opts.Script, "script", "", "読み上げる台本なのだ。")
	voiceCmd.Flags().StringVarP(&opts.ScriptFile, "script-file", "f", "", "台本を読み込むファイルのパス（'-'で標準入力なのだ）。")
	voiceCmd.AddCommand(previewCmd)
}

func voiceCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	slog.Info("ボイスオーバー生成モードを起動するのだ！",
		"voice", cfg.Options.Voice,
		"tts_model", cfg.Workflow.TTSModel)

	return pipeline.ExecuteVoice(cmd.Context(), cfg)
}

func previewCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	slog.Info("ボイスを試聴するのだ", "voice", cfg.Options.Voice)
	return pipeline.ExecutePreview(cmd.Context(), cfg)
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-story-weaver/internal/config"

	"github.com/spf13/cobra"
)

// opts はすべてのサブコマンドで共有する CLI フラグの値なのだ。
var opts config.GenerateOptions

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "story-weaver",
	Short: "キャラクターとシーンからプロンプトを合成し、画像・動画・音声を生成するのだ。",
	Long: `ロスターに登録したキャラクターとシーンの記述から画像生成用のプロンプトを組み立て、
Gemini の各モデルでシーン画像・ストーリーボード動画・ボイスオーバーを生成するツールなのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は全サブコマンド共通のフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	pf := rootCmd.PersistentFlags()

	// --- 入力 ---
	pf.StringVarP(&opts.RosterFile, "roster", "r", "", "キャラクターのロスター JSON のパスなのだ。未指定なら同梱のサンプルを使います。")
	pf.StringVarP(&opts.SceneFile, "scene", "s", "", "シーン記述 JSON のパスなのだ。未指定なら同梱のサンプルを使います。")
	pf.StringVar(&opts.ReferenceImage, "reference", "", "シーンの参照画像のパス（AI 合成で画風の参考にするのだ）。")
	pf.StringVarP(&opts.Prompt, "prompt", "p", "", "生成に使うプロンプトを直接指定するのだ。")
	pf.StringVar(&opts.PromptFile, "prompt-file", "", "プロンプトを読み込むファイルのパス（'-'で標準入力なのだ）。")

	// --- 出力 ---
	pf.StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成物を保存するディレクトリなのだ。")

	// --- モデル・挙動 ---
	pf.BoolVar(&opts.UseAI, "ai", false, "プロンプトをテンプレートではなくテキストモデルで合成するのだ。")
	pf.StringVar(&opts.TextModel, "model", "", "プロンプト合成に使う Gemini モデル名なのだ。")
	pf.StringVar(&opts.ImageModel, "image-model", "", "画像生成に使うモデル名なのだ。")
	pf.StringVar(&opts.VideoModel, "video-model", "", "動画生成に使うモデル名なのだ。")
	pf.StringVar(&opts.TTSModel, "tts-model", "", "音声合成に使うモデル名なのだ。")
	pf.DurationVar(&opts.PollTimeout, "poll-timeout", 0, "動画生成のポーリングを打ち切るまでの時間なのだ（0 は無制限）。")

	pf.BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にロガーの設定と必須の環境変数チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// compose はテンプレート合成ならキー無しでも動くのだ
	if cmd.Name() == composeCmd.Name() && !opts.UseAI {
		return nil
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

// loadConfig は環境変数と CLI フラグを合わせた設定を返します。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Apply(opts)
	return cfg
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(composeCmd, imageCmd, videoCmd, voiceCmd, serveCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// Ctrl+C で生成中の処理（動画のポーリングなど）を中断できるようにするのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("コマンドの実行に失敗しました", "error", err)
		stop()
		os.Exit(1)
	}
}

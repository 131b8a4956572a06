package config

import (
	"log/slog"
	"time"

	pkgconfig "github.com/shouni/go-story-weaver/pkg/config"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultServerAddr = ":8080"
	DefaultOutputDir  = "output"
	DefaultVoice      = "Kore"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	Workflow   pkgconfig.Config
	ServerAddr string

	Options GenerateOptions
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	// .env が無いのは普通のことなので、ログだけ残して続行するのだ
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env ファイルを読み込みませんでした", "error", err)
	}

	wf := pkgconfig.DefaultConfig()
	wf.GeminiAPIKey = envutil.GetEnv("GEMINI_API_KEY", "")
	wf.TextModel = envutil.GetEnv("GEMINI_MODEL", pkgconfig.DefaultTextModel)
	wf.ImageModel = envutil.GetEnv("IMAGE_GEMINI_MODEL", pkgconfig.DefaultImageModel)
	wf.VideoModel = envutil.GetEnv("VIDEO_GEMINI_MODEL", pkgconfig.DefaultVideoModel)
	wf.TTSModel = envutil.GetEnv("TTS_GEMINI_MODEL", pkgconfig.DefaultTTSModel)
	wf.PollInterval = getDuration("VIDEO_POLL_INTERVAL", pkgconfig.DefaultPollInterval)
	wf.PollTimeout = getDuration("VIDEO_POLL_TIMEOUT", 0)
	wf.BlobTTL = getDuration("BLOB_TTL", pkgconfig.DefaultBlobTTL)
	wf.FetchTimeout = getDuration("FETCH_TIMEOUT", pkgconfig.DefaultFetchTimeout)

	return &Config{
		Workflow:   wf,
		ServerAddr: envutil.GetEnv("SERVER_ADDR", DefaultServerAddr),
	}
}

// Apply は CLI フラグで指定された値を設定に反映します。空の値は無視するのだ。
func (c *Config) Apply(opts GenerateOptions) {
	c.Options = opts
	if opts.TextModel != "" {
		c.Workflow.TextModel = opts.TextModel
	}
	if opts.ImageModel != "" {
		c.Workflow.ImageModel = opts.ImageModel
	}
	if opts.VideoModel != "" {
		c.Workflow.VideoModel = opts.VideoModel
	}
	if opts.TTSModel != "" {
		c.Workflow.TTSModel = opts.TTSModel
	}
	if opts.PollTimeout > 0 {
		c.Workflow.PollTimeout = opts.PollTimeout
	}
	if opts.ServerAddr != "" {
		c.ServerAddr = opts.ServerAddr
	}
}

// getDuration は環境変数を time.Duration として読み込みます。解析できなければ既定値を使うのだ。
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数を期間として解釈できないため既定値を使います", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入力関連
	RosterFile     string   // --roster
	SceneFile      string   // --scene
	ReferenceImage string   // --reference
	Prompt         string   // --prompt
	PromptFile     string   // --prompt-file
	Images         []string // --images
	Script         string   // --script
	ScriptFile     string   // --script-file
	Voice          string   // --voice

	// 出力関連
	OutputDir string // --output-dir

	// AI挙動設定
	UseAI      bool   // --ai
	TextModel  string // --model
	ImageModel string // --image-model
	VideoModel string // --video-model
	TTSModel   string // --tts-model

	// 実行制御
	PollTimeout time.Duration // --poll-timeout
	ServerAddr  string        // --addr
}

package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultTextModel    = "gemini-2.5-flash"
	DefaultImageModel   = "imagen-4.0-generate-001"
	DefaultVideoModel   = "veo-3.1-generate-preview"
	DefaultTTSModel     = "gemini-2.5-flash-preview-tts"
	DefaultPollInterval = 10 * time.Second
	DefaultBlobTTL      = 1 * time.Hour
	DefaultFetchTimeout = 5 * time.Minute
)

// Config は Story Weaver のワークフローを動作させるための基本設定です。
type Config struct {
	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- AI Model Settings ---
	TextModel  string // プロンプト合成用
	ImageModel string
	VideoModel string
	TTSModel   string

	// --- Video Polling ---
	PollInterval time.Duration
	PollTimeout  time.Duration // 0 なら無制限

	// --- Asset Settings ---
	BlobTTL      time.Duration
	FetchTimeout time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		TextModel:    DefaultTextModel,
		ImageModel:   DefaultImageModel,
		VideoModel:   DefaultVideoModel,
		TTSModel:     DefaultTTSModel,
		PollInterval: DefaultPollInterval,
		BlobTTL:      DefaultBlobTTL,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// NewConfig はデフォルト値で初期化された Config に API キーをセットして返すのだ。
func NewConfig(apiKey string) Config {
	cfg := DefaultConfig()
	cfg.GeminiAPIKey = apiKey
	return cfg
}

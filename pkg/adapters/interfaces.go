package adapters

import (
	"context"

	"github.com/shouni/go-story-weaver/pkg/domain"
)

// TextRequest はプロンプト合成用のテキスト生成リクエストです。
type TextRequest struct {
	Prompt            string
	SystemInstruction string
	// Image があればテキストより前に画像パートとして送るのだ
	Image *domain.ImagePayload
}

// TextResult はテキスト生成の結果です。
type TextResult struct {
	Text string
}

// ImageRequest は画像生成リクエストです。
type ImageRequest struct {
	Prompt         string
	NumberOfImages int
	AspectRatio    string
	MIMEType       string
}

// GeneratedImage は生成された画像1枚分のバイナリです。
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// ImageResult は画像生成の結果です。Images が空なら画像が返らなかったということなのだ。
type ImageResult struct {
	Images []GeneratedImage
}

// VideoRequest は参照画像付きの動画生成リクエストです。
type VideoRequest struct {
	Prompt          string
	ReferenceImages []domain.ImagePayload
	Resolution      string
	AspectRatio     string
}

// VideoOperation は非同期の動画生成オペレーションの状態です。
type VideoOperation struct {
	Name string
	Done bool
	// URI は完了時に取得できる動画の場所です。
	URI string
	// ErrorMessage はプロバイダがオペレーション失敗を報告したときに入ります。
	ErrorMessage string
	// Handle はポーリングに必要なプロバイダ固有の値です。
	Handle any
}

// MediaPayload は取得したメディアのバイナリです。
type MediaPayload struct {
	Data     []byte
	MIMEType string
}

// SpeechRequest は音声合成リクエストです。
type SpeechRequest struct {
	Text  string
	Voice string
}

// SpeechResult は音声合成の結果で、PCM は 24kHz 16bit モノラルの生データなのだ。
type SpeechResult struct {
	PCM      []byte
	MIMEType string
}

// TextGenerator はテキスト生成を担うのだ
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (TextResult, error)
}

// ImageGenerator は画像生成を担うのだ
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) (ImageResult, error)
}

// VideoGenerator は動画生成の開始・ポーリング・取得を担うのだ
type VideoGenerator interface {
	StartVideo(ctx context.Context, req VideoRequest) (VideoOperation, error)
	PollVideo(ctx context.Context, op VideoOperation) (VideoOperation, error)
	FetchVideo(ctx context.Context, uri string) (MediaPayload, error)
}

// SpeechGenerator は音声合成を担うのだ
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, req SpeechRequest) (SpeechResult, error)
}

// Capability は外部の生成サービスが提供する機能の全体です。
type Capability interface {
	TextGenerator
	ImageGenerator
	VideoGenerator
	SpeechGenerator
}

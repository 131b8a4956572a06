package generator

import "time"

const (
	// SceneAspectRatio は画像・動画共通のアスペクト比です。
	SceneAspectRatio = "16:9"
	// VideoResolution は動画生成の解像度です。
	VideoResolution = "720p"
	// ImageMIMEType は画像生成で要求する出力形式です。
	ImageMIMEType = "image/png"
	// VideoMIMEType は取得した動画の MIME タイプが不明なときの既定値です。
	VideoMIMEType = "video/mp4"

	// DefaultPollInterval は動画生成オペレーションのポーリング間隔です。
	DefaultPollInterval = 10 * time.Second

	// PreviewScript はボイスのプレビューで読み上げる定型文なのだ。
	PreviewScript = "Hello, you can use my voice for your story."
)

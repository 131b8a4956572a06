package domain

// AssetKind は生成物の種類です。種類ごとに結果スロットが1つずつあるのだ。
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
	AssetVoice AssetKind = "voice"
)

// GeneratedAsset は生成結果の描画可能な参照です。
// 画像は data URL、動画と音声は blob 参照になります。
type GeneratedAsset struct {
	Kind     AssetKind `json:"kind"`
	URI      string    `json:"uri"`
	MIMEType string    `json:"mime_type"`
	Filename string    `json:"filename"`
}

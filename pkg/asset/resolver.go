package asset

import (
	"fmt"
	"path/filepath"

	"github.com/shouni/go-story-weaver/pkg/domain"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// SceneImageFileName は生成されたシーン画像のダウンロード時のファイル名です。
	SceneImageFileName = "story-weaver-scene.png"
	// VideoFileName は生成された動画のダウンロード時のファイル名です。
	VideoFileName = "story-weaver-video.mp4"
	// VoiceOverFileName は生成されたボイスオーバーのダウンロード時のファイル名です。
	VoiceOverFileName = "story-weaver-voiceover.wav"
	// VoicePreviewFileName はボイスのプレビュー音声のファイル名です。
	VoicePreviewFileName = "story-weaver-voice-preview.wav"
)

// FileNameFor は生成物の種類ごとの固定ファイル名を返します。
func FileNameFor(kind domain.AssetKind) string {
	switch kind {
	case domain.AssetImage:
		return SceneImageFileName
	case domain.AssetVideo:
		return VideoFileName
	case domain.AssetVoice:
		return VoiceOverFileName
	default:
		return "story-weaver-asset.bin"
	}
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if baseDir == "" {
		return fileName, nil
	}
	p, err := urlpath.ResolvePath(baseDir, fileName)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました (%s): %w", filepath.Join(baseDir, fileName), err)
	}
	return p, nil
}

package asset

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shouni/go-story-weaver/pkg/domain"
)

// EncodeDataURL はバイナリを埋め込み可能な data URL にします。
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL は base64 形式の data URL を MIME タイプとバイナリに戻します。
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, &domain.DecodeError{Format: "data URL", Cause: fmt.Errorf("data: スキームではありません")}
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, &domain.DecodeError{Format: "data URL", Cause: fmt.Errorf("カンマ区切りがありません")}
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, &domain.DecodeError{Format: "data URL", Cause: fmt.Errorf("base64 エンコードではありません")}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &domain.DecodeError{Format: "data URL", Cause: err}
	}
	return mimeType, data, nil
}

package asset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shouni/go-story-weaver/pkg/domain"

	"golang.org/x/sync/errgroup"
)

// LoadImage はローカルファイルから画像を読み込み、MIME タイプを判定します。
func LoadImage(path string) (domain.ImagePayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("画像ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return NewImagePayload(data), nil
}

// NewImagePayload は内容から MIME タイプを判定して ImagePayload を作ります。
func NewImagePayload(data []byte) domain.ImagePayload {
	return domain.ImagePayload{Data: data, MIMEType: http.DetectContentType(data)}
}

// LoadImages は複数の画像を並列に読み込み、指定順のまま返します。
func LoadImages(ctx context.Context, paths []string) ([]domain.ImagePayload, error) {
	images := make([]domain.ImagePayload, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, p := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			img, err := LoadImage(p)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "画像を読み込みました", "count", len(images))
	return images, nil
}

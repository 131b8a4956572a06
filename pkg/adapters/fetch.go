package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultFetchTimeout は生成済みメディアのダウンロードのタイムアウトです。
	DefaultFetchTimeout = 5 * time.Minute
	// MaxMediaBytes は1回の取得で受け付けるメディアの上限サイズです。
	MaxMediaBytes = int64(512 << 20)
	// apiKeyHeader は Gemini API のファイル取得で使う認証ヘッダなのだ
	apiKeyHeader = "x-goog-api-key"
)

// MediaFetcher は生成結果の URI から API キー付きでバイナリを取得します。
type MediaFetcher struct {
	client   *httpkit.Client
	apiKey   string
	maxBytes int64
	group    singleflight.Group
}

// NewHTTPClient はメディア取得用の httpkit クライアントを生成します。
// 自動リトライはしないので、失敗はそのまま呼び出し元に返るのだ。
func NewHTTPClient(timeout time.Duration) *httpkit.Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return httpkit.New(timeout, httpkit.WithMaxRetries(0))
}

// NewMediaFetcher は MediaFetcher を生成します。client が nil なら既定のものを使います。
func NewMediaFetcher(client *httpkit.Client, apiKey string) *MediaFetcher {
	if client == nil {
		client = NewHTTPClient(DefaultFetchTimeout)
	}
	return &MediaFetcher{client: client, apiKey: apiKey, maxBytes: MaxMediaBytes}
}

// Fetch は URI からメディアを取得します。同じ URI への同時取得は1回にまとめるのだ。
// 共有中の取得は特定の呼び出し元のキャンセルでは止まらず、各呼び出し元は自分の ctx で待機をやめられます。
func (f *MediaFetcher) Fetch(ctx context.Context, uri string) (MediaPayload, error) {
	ch := f.group.DoChan(uri, func() (interface{}, error) {
		return f.fetch(context.WithoutCancel(ctx), uri)
	})

	select {
	case <-ctx.Done():
		return MediaPayload{}, fmt.Errorf("メディアの取得を中断しました: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return MediaPayload{}, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "同じURIの取得結果を共有しました", "uri", uri)
		}
		payload, ok := res.Val.(MediaPayload)
		if !ok {
			return MediaPayload{}, fmt.Errorf("unexpected return type from singleflight: %T", res.Val)
		}
		return payload, nil
	}
}

func (f *MediaFetcher) fetch(ctx context.Context, uri string) (MediaPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return MediaPayload{}, fmt.Errorf("メディア取得リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", httpkit.UserAgent)
	if f.apiKey != "" {
		req.Header.Set(apiKeyHeader, f.apiKey)
	}

	// 動画は httpkit の通常の上限を超えることがあるのでストリームで読むのだ
	body, err := f.client.DoStreamRequest(req)
	if err != nil {
		return MediaPayload{}, fmt.Errorf("メディアの取得に失敗しました: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return MediaPayload{}, fmt.Errorf("メディアの読み込みに失敗しました: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return MediaPayload{}, fmt.Errorf("メディアのサイズが上限 (%dバイト) を超えています", f.maxBytes)
	}

	mimeType := sniffMediaType(data)
	slog.InfoContext(ctx, "メディアを取得しました", "bytes", len(data), "mime_type", mimeType)
	return MediaPayload{Data: data, MIMEType: mimeType}, nil
}

// sniffMediaType は中身から画像・動画・音声の MIME タイプを推定します。
// 判別できなければ空文字を返し、呼び出し元の既定値に任せるのだ。
func sniffMediaType(data []byte) string {
	mimeType := http.DetectContentType(data)
	for _, prefix := range []string{"video/", "audio/", "image/"} {
		if strings.HasPrefix(mimeType, prefix) {
			return mimeType
		}
	}
	return ""
}

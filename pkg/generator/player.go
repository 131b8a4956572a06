package generator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/shouni/go-story-weaver/pkg/asset"
)

// Player はプレビュー音声を再生する出力先です。
type Player interface {
	Play(ctx context.Context, wav []byte) error
}

// PlayerFunc は関数を Player として使うためのアダプタです。
type PlayerFunc func(ctx context.Context, wav []byte) error

func (f PlayerFunc) Play(ctx context.Context, wav []byte) error {
	return f(ctx, wav)
}

// FilePlayer はプレビュー音声をファイルに書き出し、パスをログに出します。
type FilePlayer struct {
	Dir string
}

func (p FilePlayer) Play(ctx context.Context, wav []byte) error {
	dir := p.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path, err := asset.ResolveOutputPath(dir, asset.VoicePreviewFileName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return fmt.Errorf("プレビュー音声の書き込みに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "プレビュー音声を書き出しました。再生してください", "path", path)
	return nil
}

// BufferPlayer はプレビュー音声をメモリに保持します。HTTP 応答で返すときに使うのだ。
type BufferPlayer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (p *BufferPlayer) Play(_ context.Context, wav []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf.Reset()
	_, err := p.buf.Write(wav)
	return err
}

// Bytes は最後に再生された音声を返します。
func (p *BufferPlayer) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return bytes.Clone(p.buf.Bytes())
}

package asset

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	// BlobScheme はローカルに保持した生成物を指す参照の接頭辞です。
	BlobScheme = "blob:story-weaver/"

	DefaultBlobTTL         = 1 * time.Hour
	defaultCleanupInterval = 15 * time.Minute
)

// Blob はメモリ上に保持された生成物のバイナリです。
type Blob struct {
	Data     []byte
	MIMEType string
	// Filename はダウンロード時に名乗る固定のファイル名なのだ
	Filename string
}

// BlobStore はセッション中だけ有効な blob 参照を管理します。永続化はしないのだ。
type BlobStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewBlobStore は指定 TTL で期限切れになる BlobStore を生成します。
func NewBlobStore(ttl time.Duration) *BlobStore {
	if ttl <= 0 {
		ttl = DefaultBlobTTL
	}
	return &BlobStore{
		cache: cache.New(ttl, defaultCleanupInterval),
		ttl:   ttl,
	}
}

// Put はバイナリをファイル名と一緒に保存し、新しい blob 参照を返します。
func (s *BlobStore) Put(fileName, mimeType string, data []byte) string {
	ref := BlobScheme + uuid.NewString()
	s.cache.Set(ref, Blob{Data: data, MIMEType: mimeType, Filename: fileName}, s.ttl)
	slog.Debug("blob を保存しました", "ref", ref, "mime_type", mimeType, "bytes", len(data))
	return ref
}

// Get は blob 参照からバイナリを取り出します。
func (s *BlobStore) Get(ref string) (Blob, error) {
	if !strings.HasPrefix(ref, BlobScheme) {
		return Blob{}, fmt.Errorf("blob 参照ではありません: %s", ref)
	}
	v, ok := s.cache.Get(ref)
	if !ok {
		return Blob{}, fmt.Errorf("blob が見つからないか期限切れです: %s", ref)
	}
	b, ok := v.(Blob)
	if !ok {
		return Blob{}, fmt.Errorf("unexpected blob type: %T", v)
	}
	return b, nil
}

// Revoke は blob 参照を無効化します。
func (s *BlobStore) Revoke(ref string) {
	s.cache.Delete(ref)
}

// Len は保持中の blob 数を返します。
func (s *BlobStore) Len() int {
	return s.cache.ItemCount()
}

// RefID は blob 参照から URL に載せる ID 部分を取り出すのだ。
func RefID(ref string) string {
	return strings.TrimPrefix(ref, BlobScheme)
}

// RefFromID は ID から blob 参照を組み立てます。
func RefFromID(id string) string {
	return BlobScheme + id
}

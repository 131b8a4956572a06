package domain

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MaxStoryboardFrames は動画生成で参照されるフレームの上限です。
const MaxStoryboardFrames = 3

// StoryboardImage はストーリーボード上の1枚です。Key は内容とは独立した安定キーなのだ。
type StoryboardImage struct {
	Key   string
	Image ImagePayload
}

// Storyboard は並べ替え可能な参照画像の列です。
type Storyboard struct {
	mu      sync.RWMutex
	entries []StoryboardImage
}

func NewStoryboard() *Storyboard {
	return &Storyboard{}
}

// Add は画像を末尾に追加し、採番したキーを返します。
func (s *Storyboard) Add(img ImagePayload) string {
	entry := StoryboardImage{Key: uuid.NewString(), Image: img}
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	return entry.Key
}

// Remove はキーで指定した画像を取り除きます。
func (s *Storyboard) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.Key == key {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Move は from 番目の画像を to 番目へ移動します（ドラッグ＆ドロップ相当）。
func (s *Storyboard) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("ストーリーボードの位置が範囲外です: from=%d to=%d len=%d", from, to, n)
	}
	if from == to {
		return nil
	}

	moved := s.entries[from]
	s.entries = append(s.entries[:from], s.entries[from+1:]...)
	s.entries = append(s.entries[:to], append([]StoryboardImage{moved}, s.entries[to:]...)...)
	return nil
}

// Entries はキー付きのコピーを返します。
func (s *Storyboard) Entries() []StoryboardImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoryboardImage, len(s.entries))
	copy(out, s.entries)
	return out
}

// Images は並び順どおりの画像データを返すのだ。
func (s *Storyboard) Images() []ImagePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ImagePayload, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Image
	}
	return out
}

func (s *Storyboard) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

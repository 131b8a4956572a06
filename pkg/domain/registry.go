package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Registry はキャラクターを登録順に保持するインメモリのロスターです。
type Registry struct {
	mu    sync.RWMutex
	chars []Character
}

// NewRegistry は空の Registry を生成します。
func NewRegistry() *Registry {
	return &Registry{}
}

// Add はキャラクターを検証し、新しい ID を採番して末尾に追加します。
// 引数の ID は無視されるのだ。
func (r *Registry) Add(c Character) (Character, error) {
	if err := c.Validate(); err != nil {
		return Character{}, err
	}
	c.ID = uuid.NewString()

	r.mu.Lock()
	r.chars = append(r.chars, c)
	r.mu.Unlock()
	return c, nil
}

// Delete は指定 ID のキャラクターを取り除きます。見つからなければ false を返します。
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.chars {
		if c.ID == id {
			r.chars = append(r.chars[:i], r.chars[i+1:]...)
			return true
		}
	}
	return false
}

// Find は ID からキャラクターを探します。
func (r *Registry) Find(id string) (Character, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.chars {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// Snapshot は登録順のコピーを返すのだ。呼び出し元が変更しても内部状態には影響しません。
func (r *Registry) Snapshot() []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Character, len(r.chars))
	copy(out, r.chars)
	return out
}

// Len は登録数を返します。
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chars)
}

// LoadRoster は JSON 配列からキャラクターを読み込みます。
// シーンファイルから参照できるよう、JSON 側に ID があればそれを維持し、無ければ採番します。
func (r *Registry) LoadRoster(rd io.Reader) (int, error) {
	var chars []Character
	if err := json.NewDecoder(rd).Decode(&chars); err != nil {
		return 0, fmt.Errorf("ロスターJSONのパースに失敗しました: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(r.chars)+len(chars))
	for _, c := range r.chars {
		seen[c.ID] = struct{}{}
	}

	loaded := make([]Character, 0, len(chars))
	for i, c := range chars {
		if err := c.Validate(); err != nil {
			return 0, fmt.Errorf("ロスターの %d 番目のキャラクターが不正です: %w", i+1, err)
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, dup := seen[c.ID]; dup {
			return 0, fmt.Errorf("キャラクターIDが重複しています: %s", c.ID)
		}
		seen[c.ID] = struct{}{}
		loaded = append(loaded, c)
	}

	r.chars = append(r.chars, loaded...)
	return len(loaded), nil
}

// LoadRosterFile は指定されたファイルパスからロスターを読み込むのだ。
func (r *Registry) LoadRosterFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("ロスターファイルの読み込みに失敗しました: %w", err)
	}
	defer f.Close()
	return r.LoadRoster(f)
}

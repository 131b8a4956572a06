package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// TemporaryActorID はロスターに紐付かない一時的な登場人物を表す番兵値なのだ。
const TemporaryActorID = "temporary"

const (
	DefaultShotType   = "wide shot"
	DefaultImageStyle = "cinematic anime, soft realism, moderate realism, textured shadows"
)

// ImagePayload は不透明な画像データです。
type ImagePayload struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// SceneActor はシーン内での登場人物の参照と、その場面での行動・様子です。
type SceneActor struct {
	Key         string `json:"key"`
	CharacterID string `json:"character_id"`
	Description string `json:"description"`
}

// IsTemporary はロスターを参照しない一時的な登場人物かどうかを返します。
func (a SceneActor) IsTemporary() bool {
	return a.CharacterID == TemporaryActorID
}

// SceneDetails は1ショット分のシーン記述です。
type SceneDetails struct {
	Location       string        `json:"location"`
	Environment    string        `json:"environment"`
	ShotType       string        `json:"shot_type"`
	ImageStyle     string        `json:"image_style"`
	Actors         []SceneActor  `json:"actors"`
	ReferenceImage *ImagePayload `json:"-"`
}

// DefaultSceneDetails は初期値を埋めた SceneDetails を返します。
func DefaultSceneDetails() SceneDetails {
	return SceneDetails{
		ShotType:   DefaultShotType,
		ImageStyle: DefaultImageStyle,
	}
}

// SceneBuilder は合成前のシーンを自由に編集するためのビルダーです。
type SceneBuilder struct {
	mu      sync.RWMutex
	details SceneDetails
}

// NewSceneBuilder は初期値入りのビルダーを生成するのだ。
func NewSceneBuilder() *SceneBuilder {
	return &SceneBuilder{details: DefaultSceneDetails()}
}

func (b *SceneBuilder) SetLocation(v string) {
	b.mu.Lock()
	b.details.Location = v
	b.mu.Unlock()
}

func (b *SceneBuilder) SetEnvironment(v string) {
	b.mu.Lock()
	b.details.Environment = v
	b.mu.Unlock()
}

func (b *SceneBuilder) SetShotType(v string) {
	b.mu.Lock()
	b.details.ShotType = v
	b.mu.Unlock()
}

func (b *SceneBuilder) SetImageStyle(v string) {
	b.mu.Lock()
	b.details.ImageStyle = v
	b.mu.Unlock()
}

// AddActor は一時的な登場人物を追加し、そのキーを返します。
func (b *SceneBuilder) AddActor() string {
	return b.AddActorFor(TemporaryActorID, "")
}

// AddActorFor はキャラクター ID と行動を指定して登場人物を追加します。
// 空の ID は一時的な登場人物として扱うのだ。
func (b *SceneBuilder) AddActorFor(characterID, description string) string {
	if characterID == "" {
		characterID = TemporaryActorID
	}
	actor := SceneActor{
		Key:         uuid.NewString(),
		CharacterID: characterID,
		Description: description,
	}

	b.mu.Lock()
	b.details.Actors = append(b.details.Actors, actor)
	b.mu.Unlock()
	return actor.Key
}

// UpdateActor はキーで指定した登場人物の参照先と行動を書き換えます。
func (b *SceneBuilder) UpdateActor(key, characterID, description string) bool {
	if characterID == "" {
		characterID = TemporaryActorID
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.details.Actors {
		if b.details.Actors[i].Key == key {
			b.details.Actors[i].CharacterID = characterID
			b.details.Actors[i].Description = description
			return true
		}
	}
	return false
}

// RemoveActor はキーで指定した登場人物を取り除きます。
func (b *SceneBuilder) RemoveActor(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.details.Actors {
		if b.details.Actors[i].Key == key {
			b.details.Actors = append(b.details.Actors[:i], b.details.Actors[i+1:]...)
			return true
		}
	}
	return false
}

// SetReferenceImage は参照画像を設定します。nil を渡すと解除されるのだ。
func (b *SceneBuilder) SetReferenceImage(img *ImagePayload) {
	b.mu.Lock()
	b.details.ReferenceImage = img
	b.mu.Unlock()
}

// Replace はシーン全体を置き換えます。キーの無い登場人物には新しいキーを振ります。
func (b *SceneBuilder) Replace(d SceneDetails) {
	actors := make([]SceneActor, len(d.Actors))
	for i, a := range d.Actors {
		if a.Key == "" {
			a.Key = uuid.NewString()
		}
		if a.CharacterID == "" {
			a.CharacterID = TemporaryActorID
		}
		actors[i] = a
	}
	d.Actors = actors

	b.mu.Lock()
	b.details = d
	b.mu.Unlock()
}

// Details は現在のシーンのコピーを返します。
func (b *SceneBuilder) Details() SceneDetails {
	b.mu.RLock()
	defer b.mu.RUnlock()

	d := b.details
	d.Actors = make([]SceneActor, len(b.details.Actors))
	copy(d.Actors, b.details.Actors)
	return d
}

// LoadScene は JSON からシーンを読み込みます。省略された項目には初期値が入るのだ。
func LoadScene(rd io.Reader) (SceneDetails, error) {
	d := DefaultSceneDetails()
	if err := json.NewDecoder(rd).Decode(&d); err != nil {
		return SceneDetails{}, fmt.Errorf("シーンJSONのパースに失敗しました: %w", err)
	}
	return d, nil
}

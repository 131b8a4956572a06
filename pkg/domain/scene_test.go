package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSceneBuilder(t *testing.T) {
	t.Run("初期値が入っていること", func(t *testing.T) {
		d := NewSceneBuilder().Details()
		if d.ShotType != DefaultShotType || d.ImageStyle != DefaultImageStyle {
			t.Errorf("初期値が違います: %+v", d)
		}
	})

	t.Run("追加した登場人物は一時的な番兵値を持つこと", func(t *testing.T) {
		b := NewSceneBuilder()
		key := b.AddActor()
		actors := b.Details().Actors
		if len(actors) != 1 || actors[0].Key != key || !actors[0].IsTemporary() {
			t.Errorf("登場人物が正しく追加されていません: %+v", actors)
		}
	})

	t.Run("更新と削除がキーで行えること", func(t *testing.T) {
		b := NewSceneBuilder()
		k1 := b.AddActor()
		k2 := b.AddActorFor("char-1", "waving")

		if !b.UpdateActor(k1, "char-2", "running") {
			t.Fatal("更新に失敗しました")
		}
		if !b.RemoveActor(k2) {
			t.Fatal("削除に失敗しました")
		}
		if b.UpdateActor("missing", "x", "y") {
			t.Error("存在しないキーで true が返りました")
		}

		actors := b.Details().Actors
		if len(actors) != 1 || actors[0].CharacterID != "char-2" || actors[0].Description != "running" {
			t.Errorf("期待した状態ではありません: %+v", actors)
		}
	})

	t.Run("Details のコピーを変更しても内部状態は変わらないこと", func(t *testing.T) {
		b := NewSceneBuilder()
		b.AddActorFor("char-1", "sitting")
		d := b.Details()
		d.Actors[0].Description = "changed"
		if b.Details().Actors[0].Description != "sitting" {
			t.Error("コピーの変更が内部状態に影響しました")
		}
	})
}

func TestLoadScene(t *testing.T) {
	d, err := LoadScene(strings.NewReader(`{
		"location": "Cave",
		"environment": "dark, dripping water",
		"actors": [{"character_id": "ava", "description": "crouching"}]
	}`))
	if err != nil {
		t.Fatalf("読み込みに失敗しました: %v", err)
	}
	if d.ShotType != DefaultShotType {
		t.Errorf("省略したショットに初期値が入っていません: %q", d.ShotType)
	}

	b := NewSceneBuilder()
	b.Replace(d)
	actors := b.Details().Actors
	if actors[0].Key == "" {
		t.Error("キーが採番されていません")
	}
	if actors[0].CharacterID != "ava" {
		t.Errorf("キャラクターIDが変わっています: %q", actors[0].CharacterID)
	}
}

func TestStoryboard_Move(t *testing.T) {
	sb := NewStoryboard()
	k0 := sb.Add(ImagePayload{Data: []byte("a")})
	k1 := sb.Add(ImagePayload{Data: []byte("b")})
	k2 := sb.Add(ImagePayload{Data: []byte("c")})

	if err := sb.Move(0, 2); err != nil {
		t.Fatalf("移動に失敗しました: %v", err)
	}

	entries := sb.Entries()
	wantKeys := []string{k1, k2, k0}
	for i, e := range entries {
		if e.Key != wantKeys[i] {
			t.Errorf("%d番目のキーが違います: 期待 %s, 実際 %s", i, wantKeys[i], e.Key)
		}
	}
	if got := string(sb.Images()[2].Data); got != "a" {
		t.Errorf("画像の順序が違います: %q", got)
	}

	if err := sb.Move(0, 3); err == nil {
		t.Error("範囲外の移動でエラーが発生しませんでした")
	}
	if !sb.Remove(k2) || sb.Len() != 2 {
		t.Error("削除に失敗しました")
	}
}

func TestParseVoicePreset(t *testing.T) {
	v, err := ParseVoicePreset("")
	if err != nil || v != DefaultVoice {
		t.Errorf("空文字は既定のボイスになるはずです: %v, %v", v, err)
	}
	if len(VoicePresets()) != 5 {
		t.Errorf("ボイスは5種類のはずです: %d", len(VoicePresets()))
	}
	_, err = ParseVoicePreset("Alloy")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("未知のボイスで ValidationError が返りませんでした: %v", err)
	}
}

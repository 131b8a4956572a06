package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-story-weaver/pkg/domain"
)

func TestDescribeCharacter(t *testing.T) {
	tests := []struct {
		name string
		char domain.Character
		want string
	}{
		{
			name: "全項目が埋まっている場合",
			char: avaFixture(),
			want: "Age: 24; Appearance: eyes green, skin tan, hair short black; Outfit: upper jacket, lower jeans, footwear boots; Props: flashlight",
		},
		{
			name: "空の項目は省かれること",
			char: domain.Character{Appearance: domain.Appearance{Hair: "red"}, Outfit: domain.Outfit{Footwear: "sandals"}},
			want: "Appearance: hair red; Outfit: footwear sandals",
		},
		{
			name: "全て空なら空文字になること",
			char: domain.Character{Name: "Ghost", Role: "Spirit"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeCharacter(tt.char); got != tt.want {
				t.Errorf("期待値 %q, 実際の値 %q", tt.want, got)
			}
		})
	}
}

func TestContextBuilder_BuildSceneContext(t *testing.T) {
	b, err := NewContextBuilder()
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}

	ava := avaFixture()
	scene := caveScene(
		domain.SceneActor{CharacterID: domain.TemporaryActorID, Description: "a bat"},
		domain.SceneActor{CharacterID: ava.ID, Description: "crouching"},
		domain.SceneActor{CharacterID: "missing", Description: "nobody"},
	)

	got, err := b.BuildSceneContext(scene, []domain.Character{ava})
	if err != nil {
		t.Fatalf("文脈ブロックの生成に失敗しました: %v", err)
	}

	want := strings.Join([]string{
		"Location: Cave",
		"Environment: dark, dripping water",
		"Shot Type: close-up",
		"Style: noir",
		"Characters in scene:",
		"- A temporary character: a bat",
		"- Ava (Scout): crouching. Details: " + DescribeCharacter(ava),
	}, "\n")
	if got != want {
		t.Errorf("文脈ブロックが一致しません\n期待:\n%s\n実際:\n%s", want, got)
	}
}

func TestContextBuilder_BuildComposeRequest(t *testing.T) {
	b, err := NewContextBuilder()
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}

	plain, err := b.BuildComposeRequest("Location: Cave", false)
	if err != nil {
		t.Fatalf("依頼文の生成に失敗しました: %v", err)
	}
	if strings.Contains(plain, "reference") {
		t.Errorf("参照画像なしで参照の指示が含まれています: %q", plain)
	}
	if !strings.HasSuffix(plain, "Location: Cave") {
		t.Errorf("文脈ブロックが含まれていません: %q", plain)
	}

	withRef, _ := b.BuildComposeRequest("Location: Cave", true)
	if !strings.Contains(withRef, "reference for visual style, mood and composition") {
		t.Errorf("参照画像の指示が含まれていません: %q", withRef)
	}
}

func TestSystemInstructionFor(t *testing.T) {
	if strings.Contains(SystemInstructionFor(true), "\n") {
		t.Error("システム指示に改行が含まれています")
	}
	if SystemInstructionFor(false) != SystemInstruction {
		t.Error("参照画像なしでは基本の指示のままのはずです")
	}
	if !strings.HasSuffix(SystemInstructionFor(true), ReferenceImageInstruction) {
		t.Error("参照画像ありで指示が追記されていません")
	}
}

func TestContextBuilder_UnknownMode(t *testing.T) {
	b, err := NewContextBuilder()
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}
	if _, err := b.execute("storyboard", nil); err == nil {
		t.Error("未登録のモードでエラーが発生しませんでした")
	}
	for mode := range allTemplates {
		if _, ok := map[string]bool{ModeSceneContext: true, ModeComposeRequest: true}[mode]; !ok {
			t.Errorf("想定外のテンプレートが登録されています: %s", mode)
		}
	}
}

package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/domain"
	"github.com/shouni/go-story-weaver/pkg/prompts"
)

func composeFixture() (domain.SceneDetails, []domain.Character) {
	ava := domain.Character{ID: "ava", Name: "Ava", Role: "Scout", Appearance: domain.Appearance{Eyes: "green"}}
	scene := domain.SceneDetails{
		Location:    "Cave",
		Environment: "dark, dripping water",
		ShotType:    "close-up",
		ImageStyle:  "noir",
		Actors:      []domain.SceneActor{{Key: "k", CharacterID: "ava", Description: "crouching"}},
	}
	return scene, []domain.Character{ava}
}

func TestComposer_ComposeAI(t *testing.T) {
	ctx := context.Background()

	t.Run("文脈ブロックとシステム指示を渡し、整形した結果を返すこと", func(t *testing.T) {
		fc := &fakeCapability{textResult: adapters.TextResult{Text: "  A noir close-up of Ava.  "}}
		c, err := NewComposer(fc, nil)
		if err != nil {
			t.Fatal(err)
		}
		scene, chars := composeFixture()

		got, err := c.ComposeAI(ctx, scene, chars)
		if err != nil {
			t.Fatalf("合成に失敗しました: %v", err)
		}
		if got != "A noir close-up of Ava." {
			t.Errorf("結果が違います: %q", got)
		}
		req := fc.textReqs[0]
		if !strings.Contains(req.Prompt, "- Ava (Scout): crouching. Details: Appearance: eyes green") {
			t.Errorf("文脈ブロックが含まれていません: %q", req.Prompt)
		}
		if req.SystemInstruction != prompts.SystemInstruction || req.Image != nil {
			t.Errorf("参照画像なしの指示ではありません: %+v", req)
		}
	})

	t.Run("参照画像があれば画像と追記された指示を渡すこと", func(t *testing.T) {
		fc := &fakeCapability{textResult: adapters.TextResult{Text: "ok"}}
		c, _ := NewComposer(fc, nil)
		scene, chars := composeFixture()
		scene.ReferenceImage = &domain.ImagePayload{Data: []byte("jpg"), MIMEType: "image/jpeg"}

		if _, err := c.ComposeAI(ctx, scene, chars); err != nil {
			t.Fatalf("合成に失敗しました: %v", err)
		}
		req := fc.textReqs[0]
		if req.Image == nil || string(req.Image.Data) != "jpg" {
			t.Error("参照画像が渡されていません")
		}
		if req.SystemInstruction != prompts.SystemInstructionFor(true) {
			t.Errorf("指示が追記されていません: %q", req.SystemInstruction)
		}
	})

	t.Run("入力不足は呼び出し前に拒否されること", func(t *testing.T) {
		fc := &fakeCapability{}
		c, _ := NewComposer(fc, nil)
		scene, chars := composeFixture()

		scene.Environment = ""
		_, err := c.ComposeAI(ctx, scene, chars)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) || vErr.Message != domain.MsgEnvironmentRequired {
			t.Errorf("環境の ValidationError が返りませんでした: %v", err)
		}

		scene, _ = composeFixture()
		_, err = c.ComposeAI(ctx, scene, nil)
		if !errors.As(err, &vErr) || vErr.Message != domain.MsgRosterRequired {
			t.Errorf("ロスターの ValidationError が返りませんでした: %v", err)
		}
		if fc.calls() != 0 {
			t.Errorf("リモート呼び出しが発生しました: %d", fc.calls())
		}
	})

	t.Run("失敗時は固定文だけを返すこと", func(t *testing.T) {
		for _, fc := range []*fakeCapability{
			{textErr: errors.New("500 internal: stack trace")},
			{textResult: adapters.TextResult{Text: "   "}},
		} {
			c, _ := NewComposer(fc, nil)
			scene, chars := composeFixture()
			_, err := c.ComposeAI(ctx, scene, chars)
			if err == nil || err.Error() != domain.MsgComposeFailed {
				t.Errorf("固定メッセージではありません: %v", err)
			}
		}
	})
}

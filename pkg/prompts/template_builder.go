package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-story-weaver/pkg/domain"

	promptkit "github.com/shouni/go-prompt-kit/prompts"
)

// SystemInstruction はプロンプト生成モデルへの固定の指示です。出力を1段落に制限するのだ。
const SystemInstruction = "You are an expert prompt writer for an image generation model. " +
	"Turn the scene description you receive into one vivid, concrete image prompt written as a single paragraph of plain prose. " +
	"Describe the shot, the setting, the lighting and every character with their appearance and action. " +
	"Do not use lists, bullet points, headings or line breaks, and output only the prompt itself."

// ReferenceImageInstruction は参照画像が添付されたときに追記される指示です。
const ReferenceImageInstruction = "An image is attached as a reference. " +
	"Use it as a guide for visual style, mood and composition, but keep the characters and actions from the scene description."

// SystemInstructionFor は参照画像の有無に応じたシステム指示を返します。
func SystemInstructionFor(hasReferenceImage bool) string {
	if hasReferenceImage {
		return SystemInstruction + " " + ReferenceImageInstruction
	}
	return SystemInstruction
}

// ContextBuilder は AI 合成モードに渡す文脈ブロックと依頼文を組み立てます。
type ContextBuilder struct {
	builder *promptkit.Builder
}

// NewContextBuilder は埋め込みテンプレートを解析して ContextBuilder を初期化します。
func NewContextBuilder() (*ContextBuilder, error) {
	builder, err := promptkit.NewBuilder(allTemplates)
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの初期化に失敗しました: %w", err)
	}
	return &ContextBuilder{builder: builder}, nil
}

// BuildSceneContext はシーンの構造化された複数行の文脈ブロックを生成します。
// ロスターに見つからない登場人物は読み飛ばすのだ。
func (b *ContextBuilder) BuildSceneContext(scene domain.SceneDetails, characters []domain.Character) (string, error) {
	data := SceneContextData{
		Location:    scene.Location,
		Environment: scene.Environment,
		ShotType:    scene.ShotType,
		ImageStyle:  scene.ImageStyle,
	}
	for _, actor := range scene.Actors {
		if actor.IsTemporary() {
			data.Actors = append(data.Actors, ActorLine{Temporary: true, Description: actor.Description})
			continue
		}
		c, ok := findCharacter(characters, actor.CharacterID)
		if !ok {
			continue
		}
		data.Actors = append(data.Actors, ActorLine{
			Name:        c.Name,
			Role:        c.Role,
			Description: actor.Description,
			Details:     DescribeCharacter(c),
		})
	}
	return b.execute(ModeSceneContext, data)
}

// BuildComposeRequest は文脈ブロックを包む依頼文を生成します。
func (b *ContextBuilder) BuildComposeRequest(context string, hasReferenceImage bool) (string, error) {
	return b.execute(ModeComposeRequest, ComposeRequestData{
		Context:           context,
		HasReferenceImage: hasReferenceImage,
	})
}

func (b *ContextBuilder) execute(mode string, data any) (string, error) {
	out, err := b.builder.Build(mode, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DescribeCharacter は空でない項目だけを使ってキャラクターの説明行を作ります。
// 項目は ", " で、カテゴリは "; " で区切り、全項目が空のカテゴリは丸ごと省くのだ。
func DescribeCharacter(c domain.Character) string {
	var clauses []string
	add := func(category string, fields ...[2]string) {
		var parts []string
		for _, f := range fields {
			if v := strings.TrimSpace(f[1]); v != "" {
				if f[0] == "" {
					parts = append(parts, v)
				} else {
					parts = append(parts, f[0]+" "+v)
				}
			}
		}
		if len(parts) > 0 {
			clauses = append(clauses, category+": "+strings.Join(parts, ", "))
		}
	}

	add("Age", [2]string{"", c.Age})
	add("Appearance",
		[2]string{"eyes", c.Appearance.Eyes},
		[2]string{"skin", c.Appearance.Skin},
		[2]string{"hair", c.Appearance.Hair},
	)
	add("Outfit",
		[2]string{"upper", c.Outfit.Upper},
		[2]string{"lower", c.Outfit.Lower},
		[2]string{"footwear", c.Outfit.Footwear},
	)
	add("Props", [2]string{"", c.Props})

	return strings.Join(clauses, "; ")
}

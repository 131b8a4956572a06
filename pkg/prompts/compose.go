package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-story-weaver/pkg/domain"
)

// Composition はテンプレート合成の結果です。
// SkippedActorKeys にはロスターに見つからなかった登場人物のキーが入るのだ。
type Composition struct {
	Prompt           string
	SkippedActorKeys []string
}

// ComposeTemplate はキャラクターとシーンから決定論的にプロンプトを組み立てます。
func ComposeTemplate(characters []domain.Character, scene domain.SceneDetails) string {
	return ComposeTemplateReport(characters, scene).Prompt
}

// ComposeTemplateReport は ComposeTemplate と同じプロンプトに加えて、
// 参照先が見つからず読み飛ばした登場人物を報告します。
func ComposeTemplateReport(characters []domain.Character, scene domain.SceneDetails) Composition {
	var sb strings.Builder
	var skipped []string

	fmt.Fprintf(&sb, "A %s, 16:9 aspect ratio. Style: %s. In %s, the scene is: %s. ",
		scene.ShotType, scene.ImageStyle, scene.Location, scene.Environment)

	for _, actor := range scene.Actors {
		// 一時的な登場人物はロスターを引かないのだ
		if actor.IsTemporary() {
			fmt.Fprintf(&sb, "A temporary character is present. Description and action: %s. ", actor.Description)
			continue
		}

		c, ok := findCharacter(characters, actor.CharacterID)
		if !ok {
			skipped = append(skipped, actor.Key)
			continue
		}
		fmt.Fprintf(&sb, "The character %s (%s, age %s) is present. ", c.Name, c.Role, c.Age)
		fmt.Fprintf(&sb, "They have %s eyes, %s skin, and %s hair. ", c.Appearance.Eyes, c.Appearance.Skin, c.Appearance.Hair)
		fmt.Fprintf(&sb, "They are wearing a %s, %s, and %s. ", c.Outfit.Upper, c.Outfit.Lower, c.Outfit.Footwear)
		fmt.Fprintf(&sb, "Action: %s. ", actor.Description)
	}

	return Composition{
		Prompt:           strings.TrimSpace(sb.String()),
		SkippedActorKeys: skipped,
	}
}

func findCharacter(characters []domain.Character, id string) (domain.Character, bool) {
	for _, c := range characters {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Character{}, false
}

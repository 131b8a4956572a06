package prompts

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/shouni/go-story-weaver/pkg/domain"
)

func avaFixture() domain.Character {
	return domain.Character{
		ID:         "ava-id",
		Name:       "Ava",
		Role:       "Scout",
		Age:        "24",
		Appearance: domain.Appearance{Eyes: "green", Skin: "tan", Hair: "short black"},
		Outfit:     domain.Outfit{Upper: "jacket", Lower: "jeans", Footwear: "boots"},
		Props:      "flashlight",
	}
}

func caveScene(actors ...domain.SceneActor) domain.SceneDetails {
	return domain.SceneDetails{
		Location:    "Cave",
		Environment: "dark, dripping water",
		ShotType:    "close-up",
		ImageStyle:  "noir",
		Actors:      actors,
	}
}

func TestComposeTemplate_EndToEnd(t *testing.T) {
	ava := avaFixture()
	scene := caveScene(domain.SceneActor{Key: "k1", CharacterID: ava.ID, Description: "crouching, listening"})

	got := ComposeTemplate([]domain.Character{ava}, scene)

	wantPrefix := "A close-up, 16:9 aspect ratio. Style: noir. In Cave, the scene is: dark, dripping water."
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("先頭文が一致しません\n期待: %q\n実際: %q", wantPrefix, got)
	}

	want := wantPrefix + " The character Ava (Scout, age 24) is present. " +
		"They have green eyes, tan skin, and short black hair. " +
		"They are wearing a jacket, jeans, and boots. " +
		"Action: crouching, listening."
	if got != want {
		t.Errorf("プロンプトが一致しません\n期待: %q\n実際: %q", want, got)
	}
}

// randomWord は英小文字と空白と句読点からなるランダムな文字列を返すのだ。
func randomWord(r *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz ,.'-"
	b := make([]byte, 1+r.Intn(12))
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}

func randomCharacter(r *rand.Rand, id string) domain.Character {
	return domain.Character{
		ID:         id,
		Name:       randomWord(r),
		Role:       randomWord(r),
		Age:        randomWord(r),
		Appearance: domain.Appearance{Eyes: randomWord(r), Skin: randomWord(r), Hair: randomWord(r)},
		Outfit:     domain.Outfit{Upper: randomWord(r), Lower: randomWord(r), Footwear: randomWord(r)},
		Props:      randomWord(r),
	}
}

func TestComposeTemplate_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(20261018))

	for round := 0; round < 50; round++ {
		roster := make([]domain.Character, 1+r.Intn(4))
		for i := range roster {
			roster[i] = randomCharacter(r, fmt.Sprintf("c%d", i))
		}

		actors := make([]domain.SceneActor, r.Intn(6))
		for i := range actors {
			var id string
			switch r.Intn(3) {
			case 0:
				id = domain.TemporaryActorID
			case 1:
				id = "missing-" + randomWord(r)
			default:
				id = roster[r.Intn(len(roster))].ID
			}
			actors[i] = domain.SceneActor{Key: fmt.Sprintf("k%d", i), CharacterID: id, Description: randomWord(r)}
		}
		scene := domain.SceneDetails{
			Location:    randomWord(r),
			Environment: randomWord(r),
			ShotType:    randomWord(r),
			ImageStyle:  randomWord(r),
			Actors:      actors,
		}

		wantRoster := append([]domain.Character(nil), roster...)
		wantActors := append([]domain.SceneActor(nil), actors...)

		first := ComposeTemplate(roster, scene)
		if got := ComposeTemplate(roster, scene); got != first {
			t.Fatalf("ラウンド %d で出力が変わりました\n1回目: %q\n2回目: %q", round, first, got)
		}
		if !reflect.DeepEqual(roster, wantRoster) || !reflect.DeepEqual(scene.Actors, wantActors) {
			t.Fatalf("ラウンド %d で入力が書き換えられました", round)
		}
	}
}

func TestComposeTemplate_TemporaryActor(t *testing.T) {
	// ロスターに "temporary" という ID のキャラクターがいても参照しないこと
	impostor := domain.Character{ID: domain.TemporaryActorID, Name: "Impostor", Role: "Nobody"}
	scene := caveScene(domain.SceneActor{Key: "k1", CharacterID: domain.TemporaryActorID, Description: "an old miner with a lamp"})

	for _, roster := range [][]domain.Character{nil, {impostor}} {
		got := ComposeTemplate(roster, scene)
		if !strings.HasSuffix(got, "A temporary character is present. Description and action: an old miner with a lamp.") {
			t.Errorf("一時的な登場人物の文が含まれていません: %q", got)
		}
		if strings.Contains(got, "Impostor") {
			t.Errorf("一時的な登場人物でロスターが参照されました: %q", got)
		}
	}
}

func TestComposeTemplateReport_SkipsUnknownActor(t *testing.T) {
	ava := avaFixture()
	scene := caveScene(
		domain.SceneActor{Key: "gone", CharacterID: "deleted-id", Description: "vanished"},
		domain.SceneActor{Key: "k2", CharacterID: ava.ID, Description: "crouching"},
	)

	res := ComposeTemplateReport([]domain.Character{ava}, scene)

	if strings.Contains(res.Prompt, "vanished") {
		t.Errorf("見つからない登場人物の記述が含まれています: %q", res.Prompt)
	}
	if !strings.Contains(res.Prompt, "Action: crouching.") {
		t.Errorf("後続の登場人物が欠けています: %q", res.Prompt)
	}
	if len(res.SkippedActorKeys) != 1 || res.SkippedActorKeys[0] != "gone" {
		t.Errorf("読み飛ばしが報告されていません: %v", res.SkippedActorKeys)
	}
}

func TestComposeTemplate_NoActorsIsTrimmed(t *testing.T) {
	got := ComposeTemplate(nil, caveScene())
	if strings.HasSuffix(got, " ") {
		t.Errorf("末尾の空白が除去されていません: %q", got)
	}
}

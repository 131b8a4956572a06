package prompts

import (
	_ "embed"
)

const (
	ModeSceneContext   = "scene_context"
	ModeComposeRequest = "compose_request"
)

// ActorLine はシーン文脈ブロックの登場人物1行分です。
type ActorLine struct {
	Temporary   bool
	Name        string
	Role        string
	Description string
	Details     string
}

// SceneContextData は scene_context テンプレートに渡すデータ構造です。
type SceneContextData struct {
	Location    string
	Environment string
	ShotType    string
	ImageStyle  string
	Actors      []ActorLine
}

// ComposeRequestData は compose_request テンプレートに渡すデータ構造です。
type ComposeRequestData struct {
	Context           string
	HasReferenceImage bool
}

var (
	//go:embed scene_context.md
	SceneContextPrompt string
	//go:embed compose_request.md
	ComposeRequestPrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeSceneContext:   SceneContextPrompt,
	ModeComposeRequest: ComposeRequestPrompt,
}

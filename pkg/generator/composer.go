package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/domain"
	"github.com/shouni/go-story-weaver/pkg/prompts"
)

const opCompose = "compose"

// Composer は構造化されたシーン文脈をテキスト生成モデルに渡し、洗練されたプロンプトを受け取ります。
type Composer struct {
	text    adapters.TextGenerator
	builder *prompts.ContextBuilder
}

// NewComposer は Composer を生成します。builder が nil なら新規作成するのだ。
func NewComposer(text adapters.TextGenerator, builder *prompts.ContextBuilder) (*Composer, error) {
	if text == nil {
		return nil, fmt.Errorf("TextGenerator は必須です")
	}
	if builder == nil {
		b, err := prompts.NewContextBuilder()
		if err != nil {
			return nil, fmt.Errorf("ContextBuilder の新規作成に失敗しました: %w", err)
		}
		builder = b
	}
	return &Composer{text: text, builder: builder}, nil
}

// ValidateComposeInput は合成前の必須入力を確認します。
func ValidateComposeInput(scene domain.SceneDetails, characters []domain.Character) error {
	if strings.TrimSpace(scene.Environment) == "" {
		return &domain.ValidationError{Field: "environment", Message: domain.MsgEnvironmentRequired}
	}
	if len(characters) == 0 {
		return &domain.ValidationError{Field: "characters", Message: domain.MsgRosterRequired}
	}
	return nil
}

// ComposeAI はシーンとキャラクターから AI にプロンプトを書かせます。
// 失敗時の原因はログにだけ残し、呼び出し元には固定文を返すのだ。
func (c *Composer) ComposeAI(ctx context.Context, scene domain.SceneDetails, characters []domain.Character) (string, error) {
	if err := ValidateComposeInput(scene, characters); err != nil {
		return "", err
	}

	sceneContext, err := c.builder.BuildSceneContext(scene, characters)
	if err != nil {
		return "", c.fail(ctx, domain.ReasonRequestFailed, err)
	}

	hasRef := scene.ReferenceImage != nil && len(scene.ReferenceImage.Data) > 0
	request, err := c.builder.BuildComposeRequest(sceneContext, hasRef)
	if err != nil {
		return "", c.fail(ctx, domain.ReasonRequestFailed, err)
	}

	req := adapters.TextRequest{
		Prompt:            request,
		SystemInstruction: prompts.SystemInstructionFor(hasRef),
	}
	if hasRef {
		req.Image = scene.ReferenceImage
	}

	slog.InfoContext(ctx, "AIによるプロンプト合成を開始します", "actors", len(scene.Actors), "reference_image", hasRef)
	res, err := c.text.GenerateText(ctx, req)
	if err != nil {
		return "", c.fail(ctx, domain.ReasonRequestFailed, err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", c.fail(ctx, domain.ReasonNoPayload, errors.New("response contained no text"))
	}
	return text, nil
}

func (c *Composer) fail(ctx context.Context, reason domain.FailureReason, cause error) error {
	slog.ErrorContext(ctx, "プロンプトの合成に失敗しました", "reason", reason.String(), "error", cause)
	return &domain.GenerationError{
		Operation: opCompose,
		Kind:      domain.FailureGeneric,
		Reason:    reason,
		Message:   domain.MsgComposeFailed,
		Cause:     cause,
	}
}

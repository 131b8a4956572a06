package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/domain"
)

const opImage = "image"

// GenerateImage はプロンプトから 16:9 の画像を1枚生成し、data URL として返します。
func (o *Orchestrator) GenerateImage(ctx context.Context, prompt string) (domain.GeneratedAsset, error) {
	if err := requirePrompt(prompt); err != nil {
		return domain.GeneratedAsset{}, err
	}

	slog.InfoContext(ctx, "画像生成を開始します", "prompt_length", len(prompt))
	res, err := o.capability.GenerateImages(ctx, adapters.ImageRequest{
		Prompt:         prompt,
		NumberOfImages: 1,
		AspectRatio:    SceneAspectRatio,
		MIMEType:       ImageMIMEType,
	})
	if err != nil {
		return domain.GeneratedAsset{}, o.fail(ctx, nil, opImage, domain.MsgImageFailed, domain.ReasonRequestFailed, err)
	}
	if len(res.Images) == 0 || len(res.Images[0].Data) == 0 {
		return domain.GeneratedAsset{}, o.fail(ctx, nil, opImage, domain.MsgImageNoPayload, domain.ReasonNoPayload,
			errors.New("response contained no image payload"))
	}

	img := res.Images[0]
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = ImageMIMEType
	}

	slog.InfoContext(ctx, "画像を生成しました", "bytes", len(img.Data), "mime_type", mimeType)
	return domain.GeneratedAsset{
		Kind:     domain.AssetImage,
		URI:      asset.EncodeDataURL(mimeType, img.Data),
		MIMEType: mimeType,
		Filename: asset.SceneImageFileName,
	}, nil
}

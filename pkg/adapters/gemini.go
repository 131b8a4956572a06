package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Models は用途ごとに使うモデル名です。
type Models struct {
	Text  string
	Image string
	Video string
	TTS   string
}

// GeminiAdapter は genai クライアントで Capability を実装します。
type GeminiAdapter struct {
	client  *genai.Client
	models  Models
	fetcher *MediaFetcher
}

// ErrMissingAPIKey は API キーが設定されていないことを示します。
var ErrMissingAPIKey = errors.New("API key is missing")

// NewGeminiClient は Gemini API 向けの genai クライアントを初期化します。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// NewGeminiAdapter は GeminiAdapter を生成します。
func NewGeminiAdapter(client *genai.Client, models Models, fetcher *MediaFetcher) (*GeminiAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("genai クライアントは必須です")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("MediaFetcher は必須です")
	}
	return &GeminiAdapter{client: client, models: models, fetcher: fetcher}, nil
}

// GenerateText はシステム指示と任意の参照画像付きでテキストを生成します。
func (a *GeminiAdapter) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Image != nil && len(req.Image.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.models.Text,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
	if err != nil {
		return TextResult{}, fmt.Errorf("テキスト生成に失敗しました: %w", err)
	}
	return TextResult{Text: resp.Text()}, nil
}

// GenerateImages はプロンプトから画像を生成します。
func (a *GeminiAdapter) GenerateImages(ctx context.Context, req ImageRequest) (ImageResult, error) {
	config := &genai.GenerateImagesConfig{
		AspectRatio:    req.AspectRatio,
		OutputMIMEType: req.MIMEType,
	}
	if req.NumberOfImages > 0 {
		config.NumberOfImages = int32(req.NumberOfImages)
	}

	resp, err := a.client.Models.GenerateImages(ctx, a.models.Image, req.Prompt, config)
	if err != nil {
		return ImageResult{}, fmt.Errorf("画像生成に失敗しました: %w", err)
	}

	var result ImageResult
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := gi.Image.MIMEType
		if mimeType == "" {
			mimeType = req.MIMEType
		}
		result.Images = append(result.Images, GeneratedImage{Data: gi.Image.ImageBytes, MIMEType: mimeType})
	}
	return result, nil
}

// StartVideo は参照画像を画風のアンカーとして動画生成オペレーションを開始します。
func (a *GeminiAdapter) StartVideo(ctx context.Context, req VideoRequest) (VideoOperation, error) {
	refs := make([]*genai.VideoGenerationReferenceImage, 0, len(req.ReferenceImages))
	for _, img := range req.ReferenceImages {
		refs = append(refs, &genai.VideoGenerationReferenceImage{
			Image:         &genai.Image{ImageBytes: img.Data, MIMEType: img.MIMEType},
			ReferenceType: genai.VideoGenerationReferenceTypeAsset,
		})
	}

	config := &genai.GenerateVideosConfig{
		NumberOfVideos:  1,
		AspectRatio:     req.AspectRatio,
		Resolution:      req.Resolution,
		ReferenceImages: refs,
	}

	op, err := a.client.Models.GenerateVideos(ctx, a.models.Video, req.Prompt, nil, config)
	if err != nil {
		return VideoOperation{}, fmt.Errorf("動画生成の開始に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "動画生成オペレーションを開始しました", "operation", op.Name, "references", len(refs))
	return toVideoOperation(op), nil
}

// PollVideo はオペレーションの最新状態を取得します。
func (a *GeminiAdapter) PollVideo(ctx context.Context, op VideoOperation) (VideoOperation, error) {
	raw, ok := op.Handle.(*genai.GenerateVideosOperation)
	if !ok || raw == nil {
		return VideoOperation{}, fmt.Errorf("不正なオペレーションハンドルです: %T", op.Handle)
	}
	latest, err := a.client.Operations.GetVideosOperation(ctx, raw, nil)
	if err != nil {
		return VideoOperation{}, fmt.Errorf("動画生成オペレーションの取得に失敗しました: %w", err)
	}
	return toVideoOperation(latest), nil
}

// FetchVideo は完了した動画を API キー付きで取得します。
func (a *GeminiAdapter) FetchVideo(ctx context.Context, uri string) (MediaPayload, error) {
	return a.fetcher.Fetch(ctx, uri)
}

// GenerateSpeech は指定ボイスで音声合成し、生 PCM を返します。
func (a *GeminiAdapter) GenerateSpeech(ctx context.Context, req SpeechRequest) (SpeechResult, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.models.TTS, genai.Text(req.Text), config)
	if err != nil {
		return SpeechResult{}, fmt.Errorf("音声合成に失敗しました: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return SpeechResult{PCM: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	return SpeechResult{}, nil
}

func toVideoOperation(op *genai.GenerateVideosOperation) VideoOperation {
	if op == nil {
		return VideoOperation{}
	}
	out := VideoOperation{Name: op.Name, Done: op.Done, Handle: op}
	if len(op.Error) > 0 {
		out.ErrorMessage = fmt.Sprint(op.Error["message"])
		if out.ErrorMessage == "" || out.ErrorMessage == "<nil>" {
			out.ErrorMessage = fmt.Sprint(op.Error)
		}
	}
	if op.Response != nil {
		for _, gv := range op.Response.GeneratedVideos {
			if gv != nil && gv.Video != nil && gv.Video.URI != "" {
				out.URI = gv.Video.URI
				break
			}
		}
	}
	return out
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shouni/go-story-weaver/pkg/adapters"
	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/config"
	"github.com/shouni/go-story-weaver/pkg/domain"
	"github.com/shouni/go-story-weaver/pkg/generator"
	"github.com/shouni/go-story-weaver/pkg/prompts"

	"github.com/shouni/go-http-kit/httpkit"
)

// slot は同時に1件だけ実行できる処理の単位です。
type slot string

const (
	slotCompose slot = "compose"
	slotImage   slot = slot(domain.AssetImage)
	slotVideo   slot = slot(domain.AssetVideo)
	slotVoice   slot = slot(domain.AssetVoice)
	slotPreview slot = "voice_preview"
)

// ManagerArgs は Manager の初期化に使う依存関係です。
type ManagerArgs struct {
	Config config.Config
	// Capability が nil なら Config の API キーで Gemini アダプターを構築します。
	Capability adapters.Capability
	// Selector が nil なら Config の API キーを使う StaticKeySelector になります。
	Selector       generator.CredentialSelector
	ContextBuilder *prompts.ContextBuilder
	// HTTPClient は生成済みメディアの取得に使います。nil なら FetchTimeout で新規作成するのだ。
	HTTPClient *httpkit.Client
}

// Manager は1セッション分の状態（ロスター、シーン、ストーリーボード、プロンプト、生成結果）を保持し、
// 合成と生成の各工程を呼び出します。
type Manager struct {
	cfg          config.Config
	registry     *domain.Registry
	scene        *domain.SceneBuilder
	storyboard   *domain.Storyboard
	creds        *generator.Credentials
	composer     *generator.Composer
	orchestrator *generator.Orchestrator

	mu       sync.Mutex
	prompt   string
	results  map[domain.AssetKind]domain.GeneratedAsset
	inFlight map[slot]bool
}

// New は、設定を基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	capability, err := initializeCapability(ctx, args)
	if err != nil {
		return nil, err
	}

	composer, err := generator.NewComposer(capability, args.ContextBuilder)
	if err != nil {
		return nil, fmt.Errorf("プロンプト合成エンジンの初期化に失敗しました: %w", err)
	}

	orchestrator, err := generator.NewOrchestrator(capability, asset.NewBlobStore(args.Config.BlobTTL), generator.Options{
		PollInterval: args.Config.PollInterval,
		PollTimeout:  args.Config.PollTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("生成エンジンの初期化に失敗しました: %w", err)
	}

	selector := args.Selector
	if selector == nil {
		selector = generator.StaticKeySelector{Key: args.Config.GeminiAPIKey}
	}

	return &Manager{
		cfg:          args.Config,
		registry:     domain.NewRegistry(),
		scene:        domain.NewSceneBuilder(),
		storyboard:   domain.NewStoryboard(),
		creds:        generator.NewCredentials(selector),
		composer:     composer,
		orchestrator: orchestrator,
		results:      make(map[domain.AssetKind]domain.GeneratedAsset),
		inFlight:     make(map[slot]bool),
	}, nil
}

// initializeCapability は生成サービスのアダプターを初期化します。
// 引数として既存のものが渡された場合はそれを返し、nil の場合は新規作成します。
func initializeCapability(ctx context.Context, args ManagerArgs) (adapters.Capability, error) {
	if args.Capability != nil {
		return args.Capability, nil
	}

	client, err := adapters.NewGeminiClient(ctx, args.Config.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	httpClient := args.HTTPClient
	if httpClient == nil {
		httpClient = adapters.NewHTTPClient(args.Config.FetchTimeout)
	}
	models := adapters.Models{
		Text:  args.Config.TextModel,
		Image: args.Config.ImageModel,
		Video: args.Config.VideoModel,
		TTS:   args.Config.TTSModel,
	}
	adapter, err := adapters.NewGeminiAdapter(client, models, adapters.NewMediaFetcher(httpClient, args.Config.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini アダプターの初期化に失敗しました: %w", err)
	}
	return adapter, nil
}

func (m *Manager) Registry() *domain.Registry { return m.registry }

func (m *Manager) Scene() *domain.SceneBuilder { return m.scene }

func (m *Manager) Storyboard() *domain.Storyboard { return m.storyboard }

func (m *Manager) Credentials() *generator.Credentials { return m.creds }

// AddCharacter はロスターにキャラクターを登録します。
func (m *Manager) AddCharacter(c domain.Character) (domain.Character, error) {
	added, err := m.registry.Add(c)
	if err != nil {
		return domain.Character{}, err
	}
	slog.Info("キャラクターを登録しました", "id", added.ID, "name", added.Name)
	return added, nil
}

// DeleteCharacter はロスターからキャラクターを削除します。
// シーン内の参照は残るので、次の合成で読み飛ばしとして報告されるのだ。
func (m *Manager) DeleteCharacter(id string) bool {
	ok := m.registry.Delete(id)
	if ok {
		slog.Info("キャラクターを削除しました", "id", id)
	}
	return ok
}

// ComposeTemplate は現在のロスターとシーンからテンプレートでプロンプトを組み立て、現在のプロンプトにします。
func (m *Manager) ComposeTemplate() (prompts.Composition, error) {
	scene := m.scene.Details()
	chars := m.registry.Snapshot()
	if err := generator.ValidateComposeInput(scene, chars); err != nil {
		return prompts.Composition{}, err
	}

	res := prompts.ComposeTemplateReport(chars, scene)
	if len(res.SkippedActorKeys) > 0 {
		slog.Warn("ロスターに見つからない登場人物を読み飛ばしました", "count", len(res.SkippedActorKeys), "keys", res.SkippedActorKeys)
	}
	m.SetPrompt(res.Prompt)
	return res, nil
}

// ComposeAI は AI にプロンプトを書かせ、現在のプロンプトにします。
func (m *Manager) ComposeAI(ctx context.Context) (string, error) {
	if err := m.begin(slotCompose); err != nil {
		return "", err
	}
	defer m.end(slotCompose)

	prompt, err := m.composer.ComposeAI(ctx, m.scene.Details(), m.registry.Snapshot())
	if err != nil {
		return "", err
	}
	m.SetPrompt(prompt)
	return prompt, nil
}

// SetPrompt はユーザーが編集したプロンプトを設定します。
func (m *Manager) SetPrompt(prompt string) {
	m.mu.Lock()
	m.prompt = prompt
	m.mu.Unlock()
}

// Prompt は現在のプロンプトを返します。
func (m *Manager) Prompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompt
}

// GenerateImage は現在のプロンプトから画像を生成します。
func (m *Manager) GenerateImage(ctx context.Context) (domain.GeneratedAsset, error) {
	return m.run(slotImage, domain.AssetImage, func() (domain.GeneratedAsset, error) {
		return m.orchestrator.GenerateImage(ctx, m.Prompt())
	})
}

// GenerateVideo は現在のプロンプトとストーリーボードから動画を生成します。
func (m *Manager) GenerateVideo(ctx context.Context) (domain.GeneratedAsset, error) {
	return m.run(slotVideo, domain.AssetVideo, func() (domain.GeneratedAsset, error) {
		return m.orchestrator.GenerateVideo(ctx, m.creds, m.Prompt(), m.storyboard.Images())
	})
}

// GenerateVoiceOver は台本からボイスオーバーを生成します。
func (m *Manager) GenerateVoiceOver(ctx context.Context, script string, voice domain.VoicePreset) (domain.GeneratedAsset, error) {
	return m.run(slotVoice, domain.AssetVoice, func() (domain.GeneratedAsset, error) {
		return m.orchestrator.GenerateVoiceOver(ctx, m.creds, script, voice)
	})
}

// PreviewVoice はボイスを試聴します。結果スロットは更新しないのだ。
func (m *Manager) PreviewVoice(ctx context.Context, voice domain.VoicePreset, player generator.Player) error {
	if err := m.begin(slotPreview); err != nil {
		return err
	}
	defer m.end(slotPreview)
	return m.orchestrator.PreviewVoice(ctx, m.creds, voice, player)
}

// Result は種類ごとの最新の生成結果を返します。
func (m *Manager) Result(kind domain.AssetKind) (domain.GeneratedAsset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.results[kind]
	return a, ok
}

// Blob は blob 参照の中身を返します。
func (m *Manager) Blob(ref string) (asset.Blob, error) {
	return m.orchestrator.Blobs().Get(ref)
}

// run は同じ種類の処理が実行中でないことを確認してから fn を実行し、成功時に結果スロットを上書きします。
func (m *Manager) run(s slot, kind domain.AssetKind, fn func() (domain.GeneratedAsset, error)) (domain.GeneratedAsset, error) {
	if err := m.begin(s); err != nil {
		return domain.GeneratedAsset{}, err
	}
	defer m.end(s)

	result, err := fn()
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	m.mu.Lock()
	if prev, ok := m.results[kind]; ok && prev.URI != result.URI && kind != domain.AssetImage {
		// 古い blob は参照されなくなるので解放するのだ
		m.orchestrator.Blobs().Revoke(prev.URI)
	}
	m.results[kind] = result
	m.mu.Unlock()
	return result, nil
}

func (m *Manager) begin(s slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight[s] {
		slog.Warn("同じ種類の処理が実行中です", "slot", s)
		return domain.ErrRequestInFlight
	}
	m.inFlight[s] = true
	return nil
}

func (m *Manager) end(s slot) {
	m.mu.Lock()
	delete(m.inFlight, s)
	m.mu.Unlock()
}

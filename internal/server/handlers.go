package server

import (
	"io"
	"mime"
	"net/http"

	"github.com/shouni/go-story-weaver/pkg/asset"
	"github.com/shouni/go-story-weaver/pkg/audio"
	"github.com/shouni/go-story-weaver/pkg/domain"
	"github.com/shouni/go-story-weaver/pkg/generator"
	"github.com/shouni/go-story-weaver/pkg/workflow"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes は画像アップロードの上限です。
const maxUploadBytes = 20 << 20

// Handler は Manager の操作を HTTP に公開します。
type Handler struct {
	m *workflow.Manager
}

func NewHandler(m *workflow.Manager) *Handler {
	return &Handler{m: m}
}

type composeRequest struct {
	Mode string `json:"mode"` // "template" or "ai"
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type voiceRequest struct {
	Script string `json:"script"`
	Voice  string `json:"voice"`
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type storyboardEntry struct {
	Key      string `json:"key"`
	MIMEType string `json:"mime_type"`
	Bytes    int    `json:"bytes"`
}

func (h *Handler) ListCharacters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"characters": h.m.Registry().Snapshot()})
}

func (h *Handler) AddCharacter(c *gin.Context) {
	var req domain.Character
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	added, err := h.m.AddCharacter(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *Handler) DeleteCharacter(c *gin.Context) {
	if !h.m.DeleteCharacter(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Character not found."})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetScene(c *gin.Context) {
	d := h.m.Scene().Details()
	c.JSON(http.StatusOK, gin.H{"scene": d, "has_reference_image": d.ReferenceImage != nil})
}

// PutScene はシーン全体を置き換えます。参照画像は維持するのだ。
func (h *Handler) PutScene(c *gin.Context) {
	req := domain.DefaultSceneDetails()
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	req.ReferenceImage = h.m.Scene().Details().ReferenceImage
	h.m.Scene().Replace(req)
	c.JSON(http.StatusOK, gin.H{"scene": h.m.Scene().Details()})
}

func (h *Handler) PutReferenceImage(c *gin.Context) {
	img, ok := readImageBody(c)
	if !ok {
		return
	}
	h.m.Scene().SetReferenceImage(&img)
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteReferenceImage(c *gin.Context) {
	h.m.Scene().SetReferenceImage(nil)
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListStoryboard(c *gin.Context) {
	entries := h.m.Storyboard().Entries()
	out := make([]storyboardEntry, len(entries))
	for i, e := range entries {
		out[i] = storyboardEntry{Key: e.Key, MIMEType: e.Image.MIMEType, Bytes: len(e.Image.Data)}
	}
	c.JSON(http.StatusOK, gin.H{"images": out})
}

func (h *Handler) AddStoryboardImage(c *gin.Context) {
	img, ok := readImageBody(c)
	if !ok {
		return
	}
	key := h.m.Storyboard().Add(img)
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *Handler) DeleteStoryboardImage(c *gin.Context) {
	if !h.m.Storyboard().Remove(c.Param("key")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found."})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MoveStoryboardImage(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if err := h.m.Storyboard().Move(req.From, req.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position is out of range."})
		return
	}
	h.ListStoryboard(c)
}

func (h *Handler) Compose(c *gin.Context) {
	var req composeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	if req.Mode == "ai" {
		prompt, err := h.m.ComposeAI(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": prompt})
		return
	}

	res, err := h.m.ComposeTemplate()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": res.Prompt, "skipped_actor_keys": res.SkippedActorKeys})
}

func (h *Handler) GetPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompt": h.m.Prompt()})
}

func (h *Handler) PutPrompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	h.m.SetPrompt(req.Prompt)
	c.JSON(http.StatusOK, gin.H{"prompt": h.m.Prompt()})
}

func (h *Handler) GenerateImage(c *gin.Context) {
	a, err := h.m.GenerateImage(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) GenerateVideo(c *gin.Context) {
	a, err := h.m.GenerateVideo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withBlobURL(a))
}

func (h *Handler) GenerateVoice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	voice, err := domain.ParseVoicePreset(req.Voice)
	if err != nil {
		respondError(c, err)
		return
	}
	a, err := h.m.GenerateVoiceOver(c.Request.Context(), req.Script, voice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withBlobURL(a))
}

func (h *Handler) GetResult(c *gin.Context) {
	kind := domain.AssetKind(c.Param("kind"))
	a, ok := h.m.Result(kind)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing has been generated yet."})
		return
	}
	if kind == domain.AssetImage {
		c.JSON(http.StatusOK, a)
		return
	}
	c.JSON(http.StatusOK, withBlobURL(a))
}

func (h *Handler) ListVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"voices": domain.VoicePresets(), "default": domain.DefaultVoice})
}

// PreviewVoice は試聴用の音声をそのままレスポンスとして返します。
func (h *Handler) PreviewVoice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	voice, err := domain.ParseVoicePreset(req.Voice)
	if err != nil {
		respondError(c, err)
		return
	}

	player := &generator.BufferPlayer{}
	if err := h.m.PreviewVoice(c.Request.Context(), voice, player); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, audio.MIMEType, player.Bytes())
}

func (h *Handler) GetCredentials(c *gin.Context) {
	creds := h.m.Credentials()
	c.JSON(http.StatusOK, gin.H{"state": creds.State().String(), "selected": creds.Selected()})
}

// GetBlob は blob 参照の中身を返します。?download=1 なら保存時の固定ファイル名で返すのだ。
func (h *Handler) GetBlob(c *gin.Context) {
	ref := asset.RefFromID(c.Param("id"))
	b, err := h.m.Blob(ref)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found or expired."})
		return
	}
	if c.Query("download") != "" && b.Filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": b.Filename}))
	}
	c.Data(http.StatusOK, b.MIMEType, b.Data)
}

// withBlobURL は blob 参照に HTTP で取得するための URL を添えるのだ。
func withBlobURL(a domain.GeneratedAsset) gin.H {
	return gin.H{
		"kind":      a.Kind,
		"uri":       a.URI,
		"mime_type": a.MIMEType,
		"filename":  a.Filename,
		"url":       "/blobs/" + asset.RefID(a.URI) + "?download=1",
	}
}

func readImageBody(c *gin.Context) (domain.ImagePayload, bool) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read the image."})
		return domain.ImagePayload{}, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image body is empty."})
		return domain.ImagePayload{}, false
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image is too large."})
		return domain.ImagePayload{}, false
	}
	img := asset.NewImagePayload(data)
	if ct := c.ContentType(); ct != "" && ct != "application/octet-stream" {
		img.MIMEType = ct
	}
	return img, true
}

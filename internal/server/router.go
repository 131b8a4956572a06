package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-story-weaver/pkg/workflow"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// NewRouter はセッションの各操作を公開する HTTP ルーターを構築します。
func NewRouter(m *workflow.Manager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	h := NewHandler(m)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/blobs/:id", h.GetBlob)

	api := r.Group("/api")
	{
		api.GET("/characters", h.ListCharacters)
		api.POST("/characters", h.AddCharacter)
		api.DELETE("/characters/:id", h.DeleteCharacter)

		api.GET("/scene", h.GetScene)
		api.PUT("/scene", h.PutScene)
		api.PUT("/scene/reference", h.PutReferenceImage)
		api.DELETE("/scene/reference", h.DeleteReferenceImage)

		api.GET("/storyboard", h.ListStoryboard)
		api.POST("/storyboard", h.AddStoryboardImage)
		api.DELETE("/storyboard/:key", h.DeleteStoryboardImage)
		api.POST("/storyboard/move", h.MoveStoryboardImage)

		api.POST("/compose", h.Compose)
		api.GET("/prompt", h.GetPrompt)
		api.PUT("/prompt", h.PutPrompt)

		api.POST("/generate/image", h.GenerateImage)
		api.POST("/generate/video", h.GenerateVideo)
		api.POST("/generate/voice", h.GenerateVoice)
		api.GET("/results/:kind", h.GetResult)

		api.GET("/voices", h.ListVoices)
		api.POST("/voices/preview", h.PreviewVoice)
		api.GET("/credentials", h.GetCredentials)
	}
	return r
}

// Run は HTTP サーバーを起動し、ctx が終わったら穏やかに停止するのだ。
func Run(ctx context.Context, addr string, m *workflow.Manager) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTPサーバーを起動します", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTPサーバーの起動に失敗しました: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("HTTPサーバーを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗しました: %w", err)
	}
	return nil
}

// requestLogger はリクエストごとに slog で1行記録するミドルウェアです。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

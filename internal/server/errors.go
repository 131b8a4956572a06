package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shouni/go-story-weaver/pkg/domain"

	"github.com/gin-gonic/gin"
)

// respondError はドメインのエラーを HTTP ステータスとユーザー向けメッセージに変換します。
// プロバイダの生のエラー文は返さないのだ。
func respondError(c *gin.Context, err error) {
	var (
		vErr *domain.ValidationError
		gErr *domain.GenerationError
		tErr *domain.TimeoutError
	)

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.As(err, &gErr) && gErr.IsAuth():
		c.JSON(http.StatusUnauthorized, gin.H{"error": gErr.Message, "kind": gErr.Kind.String(), "reselect_credentials": true})
	case errors.As(err, &gErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gErr.Message, "kind": gErr.Kind.String(), "reason": gErr.Reason.String()})
	case errors.As(err, &tErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": tErr.Error()})
	case errors.Is(err, domain.ErrRequestInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("リクエストの処理に失敗しました", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}

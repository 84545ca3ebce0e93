package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner_backend/internal/feature/stats/domain/entity"
	"planner_backend/internal/feature/stats/transport/http/dto"
)

// StatsUsecase はプロンプト統計のユースケースのインターフェースです。
type StatsUsecase interface {
	Get(ctx context.Context, userID string) (*entity.Summary, error)
}

// StatsHandler はプロンプト統計のHTTPリクエストを処理します。
type StatsHandler struct {
	uc StatsUsecase
}

// NewStatsHandler は新しい StatsHandler を作成します。
func NewStatsHandler(uc StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Get は全体とユーザー個別のプロンプト数を返すAPIです。
// 取得に失敗した場合は500 {success:false}を返します。
func (h *StatsHandler) Get(c *gin.Context) {
	userID := c.Param("userId")
	s, err := h.uc.Get(c.Request.Context(), userID)
	if err != nil {
		slog.Error("fetch stats failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, dto.StatsRes{TotalPrompts: s.TotalPrompts, UserPrompts: s.UserPrompts})
}

// Package handler はchatフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner_backend/internal/feature/chat/domain/entity"
	"planner_backend/internal/feature/chat/transport/http/dto"
	jwtmw "planner_backend/internal/platform/jwt"
	"planner_backend/internal/shared/apperr"
)

const (
	serverError   = "Server error"
	anonymousUser = "anonymous"
)

// HistoryUsecase は会話履歴の操作を定義します。
type HistoryUsecase interface {
	SaveExchange(ctx context.Context, userID, userInput, aiResponse string) error
	GetPaired(ctx context.Context, userID string) ([]entity.Pair, error)
	DeletePair(ctx context.Context, userID, userInput, aiResponse string) error
	DeletePairByID(ctx context.Context, userID, pairID string) error
}

// CompletionUsecase はプロンプトの補完を定義します。
type CompletionUsecase interface {
	Complete(ctx context.Context, userID, prompt string) (string, error)
}

// ChatHandler はチャットと履歴のHTTPリクエストを処理します。
type ChatHandler struct {
	history    HistoryUsecase
	completion CompletionUsecase
}

// NewChatHandler はChatHandlerの新しいインスタンスを生成します。
func NewChatHandler(history HistoryUsecase, completion CompletionUsecase) *ChatHandler {
	return &ChatHandler{history: history, completion: completion}
}

// Chat は/api/chatを処理します。
// - userIdはボディ、トークンのID、"anonymous"の順に決定
// - プロンプトが空の場合は200 {ok:false, "Prompt is required"}
// - 外部サービスの失敗は500 {response:"Server error"}
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("chat invalid request body", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ChatRejectedRes{OK: false, Message: "Invalid request"})
		return
	}

	userID := req.UserID
	if userID == "" {
		if identity, ok := jwtmw.IdentityFrom(c); ok {
			userID = identity.UserID
		}
	}
	if userID == "" {
		userID = anonymousUser
	}

	reply, err := h.completion.Complete(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			c.JSON(http.StatusOK, dto.ChatRejectedRes{OK: false, Message: apperr.MessageOf(err, serverError)})
			return
		}
		slog.Error("chat completion failed", "error", err, "kind", apperr.KindOf(err).String(), "user_id", userID)
		c.JSON(http.StatusInternalServerError, dto.ChatRes{Response: serverError})
		return
	}
	c.JSON(http.StatusOK, dto.ChatRes{Response: reply})
}

// failResult は {success:false, message} を返却します。業務エラーは200、内部エラーは500です。
func failResult(c *gin.Context, op string, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ResultRes{Success: false, Message: serverError})
		return
	}
	c.JSON(http.StatusOK, dto.ResultRes{Success: false, Message: apperr.MessageOf(err, serverError)})
}

// SaveHistory は/api/history/saveを処理します。
func (h *ChatHandler) SaveHistory(c *gin.Context) {
	var req dto.SaveHistoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ResultRes{Success: false, Message: "Invalid request"})
		return
	}
	if err := h.history.SaveExchange(c.Request.Context(), req.UserID, req.UserInput, req.AIResponse); err != nil {
		failResult(c, "save history", err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: "History saved successfully"})
}

// GetHistory は/api/history/:userIdを処理します。
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID := c.Param("userId")
	pairs, err := h.history.GetPaired(c.Request.Context(), userID)
	if err != nil {
		slog.Error("fetch history failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, dto.HistoryRes{History: []entity.Pair{}})
		return
	}
	c.JSON(http.StatusOK, dto.HistoryRes{History: pairs})
}

// DeleteHistory は/api/chat/deleteを処理します。pairIdがあればIDで削除します。
func (h *ChatHandler) DeleteHistory(c *gin.Context) {
	var req dto.DeleteHistoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ResultRes{Success: false, Message: "Invalid request"})
		return
	}

	var err error
	if req.PairID != "" {
		err = h.history.DeletePairByID(c.Request.Context(), req.UserID, req.PairID)
	} else {
		err = h.history.DeletePair(c.Request.Context(), req.UserID, req.UserInput, req.AIResponse)
	}
	if err != nil {
		failResult(c, "delete history", err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: "History item deleted"})
}

// DeleteHistoryByID は DELETE /api/history/:userId/:pairId を処理します。
func (h *ChatHandler) DeleteHistoryByID(c *gin.Context) {
	if err := h.history.DeletePairByID(c.Request.Context(), c.Param("userId"), c.Param("pairId")); err != nil {
		failResult(c, "delete history", err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultRes{Success: true, Message: "History item deleted"})
}

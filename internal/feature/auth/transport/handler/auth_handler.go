// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner_backend/internal/feature/auth/domain/entity"
	"planner_backend/internal/feature/auth/transport/http/dto"
	"planner_backend/internal/feature/auth/usecase"
	jwtmw "planner_backend/internal/platform/jwt"
	"planner_backend/internal/shared/apperr"
)

const serverError = "Server error"

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// RequestOTP は指定メールアドレス宛のワンタイムコードを発行します。
	RequestOTP(ctx context.Context, email string) error
	// Register はOTPを検証してユーザーを登録し、トークンを返します。
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にトークンを返します。
	Login(ctx context.Context, identifier, password string) (*usecase.AuthResult, error)
	// CurrentUser はIDに一致するユーザーを返します。
	CurrentUser(ctx context.Context, userID string) (*entity.User, error)
	// UpdateProfile はプロフィールを部分更新します。
	UpdateProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// failAuth はユースケースのエラーを {ok:false, message} 形式で返却します。
// 業務エラーは200、内部エラーは500です。
func failAuth(c *gin.Context, op string, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.AuthRes{OK: false, Message: serverError})
		return
	}
	slog.Warn(op+" rejected", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{OK: false, Message: apperr.MessageOf(err, serverError)})
}

func invalidRequest(c *gin.Context, op string, err error) {
	slog.Warn(op+" invalid request body", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, dto.AuthRes{OK: false, Message: "Invalid request"})
}

// SendOTP は/send-otpを処理します。
// - メール未指定時は200 {ok:false, "Email required"}
// - 成功時は200 {ok:true, "OTP sent!"}
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "send-otp", err)
		return
	}
	if err := h.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		failAuth(c, "send-otp", err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthRes{OK: true, Message: "OTP sent!"})
}

// Register は/registerを処理します。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "register", err)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		OTP:      string(req.OTP),
	})
	if err != nil {
		failAuth(c, "register", err)
		return
	}
	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{
		OK:      true,
		Message: "Registered successfully",
		Token:   res.Token,
		User:    dto.NewUserRes(res.User),
	})
}

// Login は/loginを処理します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "login", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		failAuth(c, "login", err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{
		OK:      true,
		Message: "Login successful",
		Token:   res.Token,
		User:    dto.NewUserRes(res.User),
	})
}

// Me は/meを処理します。AuthRequiredミドルウェアの後に配置してください。
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := jwtmw.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MeRes{OK: false, Message: "Invalid token"})
		return
	}
	user, err := h.auth.CurrentUser(c.Request.Context(), identity.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			slog.Error("me failed", "error", err, "user_id", identity.UserID)
			c.JSON(http.StatusInternalServerError, dto.MeRes{OK: false, Message: serverError})
			return
		}
		c.JSON(http.StatusOK, dto.MeRes{OK: false, Message: apperr.MessageOf(err, serverError)})
		return
	}
	c.JSON(http.StatusOK, dto.MeRes{OK: true, User: dto.NewUserRes(user)})
}

// UpdateUser は/api/users/update/:idを処理します。
// - 存在しないユーザーは404、ユーザー名/メール重複は409
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update user invalid request body", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.UpdateUserRes{Success: false, Message: "Invalid request"})
		return
	}

	userID := c.Param("id")
	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, entity.ProfileUpdate{
		Username:  req.Username,
		Email:     req.Email,
		Fullname:  req.Fullname,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			c.JSON(http.StatusNotFound, dto.UpdateUserRes{Success: false, Message: apperr.MessageOf(err, "")})
		case apperr.KindConflict:
			c.JSON(http.StatusConflict, dto.UpdateUserRes{Success: false, Message: apperr.MessageOf(err, "")})
		default:
			slog.Error("update user failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, dto.UpdateUserRes{Success: false, Message: "Update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.UpdateUserRes{Success: true, User: dto.NewUserRes(user)})
}

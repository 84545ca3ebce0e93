package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	authhandler "planner_backend/internal/feature/auth/transport/handler"
	chathandler "planner_backend/internal/feature/chat/transport/handler"
	statshandler "planner_backend/internal/feature/stats/transport/handler"
	"planner_backend/internal/platform/http/handler"
	jwtmw "planner_backend/internal/platform/jwt"
	"planner_backend/internal/platform/metrics"
	"planner_backend/internal/shared/ratelimiter"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth   *authhandler.AuthHandler
	Chat   *chathandler.ChatHandler
	Stats  *statshandler.StatsHandler
	Health *handler.HealthHandler
}

// Options holds the middleware dependencies of the router.
type Options struct {
	AllowOrigins []string
	Sessions     jwtmw.SessionValidator
	AuthLimiter  *ratelimiter.KeyedLimiter
	Metrics      *metrics.Collector
	Gatherer     prometheus.Gatherer
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.GinMiddleware())
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}

	// OTP発行・登録・ログインはクライアントごとにレート制限
	public := r.Group("/")
	if opts.AuthLimiter != nil {
		public.Use(opts.AuthLimiter.Middleware())
	}
	{
		public.POST("/send-otp", h.Auth.SendOTP)
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)
	}

	// 履歴・統計・プロフィール更新はトークン不要
	api := r.Group("/api")
	{
		api.POST("/history/save", h.Chat.SaveHistory)
		api.GET("/history/:userId", h.Chat.GetHistory)
		api.DELETE("/history/:userId/:pairId", h.Chat.DeleteHistoryByID)
		api.POST("/chat/delete", h.Chat.DeleteHistory)
		api.PUT("/users/update/:id", h.Auth.UpdateUser)
		api.GET("/stats/:userId", h.Stats.Get)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに Bearer トークンが必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.Sessions))
	{
		auth.GET("/me", h.Auth.Me)
		auth.POST("/api/chat", h.Chat.Chat)
	}

	return r
}

package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsvc "cafehub/internal/app"
	"cafehub/internal/bootstrap"
	"cafehub/internal/repository"
	"cafehub/internal/transport/http/handler"
	"cafehub/internal/transport/http/middleware"
)

// Services is everything the routes call into.
type Services struct {
	Auth    *appsvc.AuthService
	Reset   *appsvc.ResetService
	Cafe    *appsvc.CafeService
	Account *appsvc.AccountService
	Review  *appsvc.ReviewService

	Limiter      *middleware.RateLimiter
	SecureCookie bool
	Health       *handler.HealthHandler
	Logger       *zap.Logger

	// TrustedProxies may set X-Forwarded-For; nil trusts no one.
	TrustedProxies []string
}

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)

	userRepo := repository.NewUserRepository(app.DB)
	cafeRepo := repository.NewCafeRepository(app.DB)
	reviewRepo := repository.NewReviewRepository(app.DB)

	cfg := app.Config
	return Routes(Services{
		Auth:           appsvc.NewAuthService(userRepo, app.Sessions, cfg.Auth.SessionSecret, cfg.SessionTTL(), app.Logger),
		Reset:          appsvc.NewResetService(userRepo, app.ResetMailer, cfg.ResetCodeTTL(), cfg.Reset.MaxAttempts, app.Logger),
		Cafe:           appsvc.NewCafeService(cafeRepo, app.CafeCache, app.Logger),
		Account:        appsvc.NewAccountService(userRepo),
		Review:         appsvc.NewReviewService(reviewRepo, cafeRepo),
		Limiter:        middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		SecureCookie:   cfg.Auth.CookieSecure,
		TrustedProxies: cfg.App.TrustedProxies,
		Health:         handler.NewHealthHandler(app),
		Logger:         app.Logger,
	})
}

func Routes(s Services) (*gin.Engine, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	limiter := s.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(0, 0)
	}

	router := gin.New()
	// client IPs key the rate limiter, so forwarded headers only count from known proxies
	if err := router.SetTrustedProxies(s.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies failed: %w", err)
	}
	router.SetHTMLTemplate(templates)
	router.Use(gin.Logger(), gin.Recovery(), middleware.Session(s.Auth, s.SecureCookie, log))
	router.NoRoute(handler.NotFound)

	authHandler := handler.NewAuthHandler(s.Auth, s.SecureCookie, log)
	resetHandler := handler.NewResetHandler(s.Reset, log)
	cafeHandler := handler.NewCafeHandler(s.Cafe, s.Review, log)
	accountHandler := handler.NewAccountHandler(s.Account, s.Auth, log)

	if s.Health != nil {
		router.GET("/healthz", s.Health.Check)
	}

	router.GET("/", cafeHandler.Index)
	router.GET("/register", authHandler.RegisterForm)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", limiter.Middleware(), authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	router.GET("/reset-password", resetHandler.RequestForm)
	router.POST("/reset-password", limiter.Middleware(), resetHandler.Request)
	router.GET("/reset-password/:token", resetHandler.VerifyForm)
	router.POST("/reset-password/:token", limiter.Middleware(), resetHandler.Verify)

	member := router.Group("/")
	member.Use(middleware.RequireLogin())
	member.GET("/add", cafeHandler.New)
	member.POST("/add", cafeHandler.Create)
	member.GET("/edit/:id", cafeHandler.Edit)
	member.POST("/edit/:id", cafeHandler.Update)
	member.GET("/delete/:id", cafeHandler.ConfirmDelete)
	member.POST("/delete/:id", cafeHandler.Delete)
	member.GET("/my-account", accountHandler.Show)
	member.POST("/my-account", accountHandler.Update)
	member.POST("/:id/reviews", cafeHandler.AddReview)

	router.GET("/:id", cafeHandler.Show)

	return router, nil
}

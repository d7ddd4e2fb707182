package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafehub/internal/app"
	"cafehub/internal/transport/http/flash"
	"cafehub/internal/transport/http/middleware"
)

type AuthHandler struct {
	authService  *app.AuthService
	secureCookie bool
	log          *zap.Logger
}

type RegisterRequest struct {
	Username        string `form:"username" binding:"max=64"`
	Email           string `form:"email" binding:"max=128"`
	Password        string `form:"password" binding:"max=256"`
	ConfirmPassword string `form:"confirm_password" binding:"max=256"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"max=64"`
	Password string `form:"password" binding:"max=256"`
}

func NewAuthHandler(authService *app.AuthService, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie, log: log}
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "register.html", registerData(RegisterRequest{}))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		renderInvalid(c, "register.html", fieldsTooLong, registerData(req))
		return
	}

	_, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if msg, ok := app.IsValidation(err); ok {
			renderInvalid(c, "register.html", msg, registerData(req))
			return
		}
		serverError(c, h.log, err)
		return
	}
	redirectWithFlash(c, flash.Success, "Registration successful. Please log in.", "/login")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", loginData(LoginRequest{}, c.Query("next")))
}

func (h *AuthHandler) Login(c *gin.Context) {
	next := c.Query("next")
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, req, next)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredential) {
			h.loginFailed(c, req, next)
			return
		}
		serverError(c, h.log, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	middleware.SetSessionCookie(c, result.Token, maxAge, h.secureCookie)
	redirectWithFlash(c, flash.Success, "Logged in successfully.", middleware.SafeNext(next))
}

func (h *AuthHandler) loginFailed(c *gin.Context, req LoginRequest, next string) {
	flash.Add(c, flash.Error, "Invalid username or password")
	render(c, http.StatusUnauthorized, "login.html", loginData(req, next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.log.Warn("logout failed", zap.Error(err))
		}
		middleware.ClearSessionCookie(c, h.secureCookie)
	}
	c.Redirect(http.StatusFound, "/")
}

func registerData(req RegisterRequest) gin.H {
	return gin.H{"Title": "Register", "Form": req}
}

func loginData(req LoginRequest, next string) gin.H {
	if next != "" {
		next = middleware.SafeNext(next)
	}
	return gin.H{"Title": "Log in", "Form": req, "Next": next}
}

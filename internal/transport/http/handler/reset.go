package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafehub/internal/app"
	"cafehub/internal/transport/http/flash"
)

type ResetHandler struct {
	resetService *app.ResetService
	log          *zap.Logger
}

type ResetRequest struct {
	Email string `form:"email" binding:"max=128"`
}

type VerifyResetRequest struct {
	Code            string `form:"code" binding:"max=16"`
	NewPassword     string `form:"new_password" binding:"max=256"`
	ConfirmPassword string `form:"confirm_password" binding:"max=256"`
}

func NewResetHandler(resetService *app.ResetService, log *zap.Logger) *ResetHandler {
	return &ResetHandler{resetService: resetService, log: log}
}

func (h *ResetHandler) RequestForm(c *gin.Context) {
	render(c, http.StatusOK, "reset-request.html", gin.H{"Title": "Reset password", "Email": ""})
}

func (h *ResetHandler) Request(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBind(&req); err != nil {
		renderInvalid(c, "reset-request.html", fieldsTooLong, gin.H{"Title": "Reset password", "Email": req.Email})
		return
	}

	token, err := h.resetService.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		if msg, ok := app.IsValidation(err); ok {
			renderInvalid(c, "reset-request.html", msg, gin.H{"Title": "Reset password", "Email": req.Email})
			return
		}
		serverError(c, h.log, err)
		return
	}
	redirectWithFlash(c, flash.Success, "If that email is registered, a reset code has been sent.", "/reset-password/"+token)
}

func (h *ResetHandler) VerifyForm(c *gin.Context) {
	render(c, http.StatusOK, "reset-verify.html", verifyData(c.Param("token")))
}

func (h *ResetHandler) Verify(c *gin.Context) {
	token := c.Param("token")
	var req VerifyResetRequest
	if err := c.ShouldBind(&req); err != nil {
		renderInvalid(c, "reset-verify.html", app.ErrInvalidResetCode.Error(), verifyData(token))
		return
	}

	err := h.resetService.VerifyReset(c.Request.Context(), app.VerifyResetInput{
		Token:           token,
		Code:            req.Code,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if msg, ok := app.IsValidation(err); ok {
			renderInvalid(c, "reset-verify.html", msg, verifyData(token))
			return
		}
		serverError(c, h.log, err)
		return
	}
	redirectWithFlash(c, flash.Success, "Your password has been reset. Please log in.", "/login")
}

func verifyData(token string) gin.H {
	return gin.H{"Title": "Enter reset code", "Token": token}
}

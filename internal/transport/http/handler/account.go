package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafehub/internal/app"
	"cafehub/internal/transport/http/flash"
)

type AccountHandler struct {
	accountService *app.AccountService
	authService    *app.AuthService
	log            *zap.Logger
}

type AccountRequest struct {
	Email           string `form:"email" binding:"max=128"`
	CurrentPassword string `form:"current_password" binding:"max=256"`
	NewPassword     string `form:"new_password" binding:"max=256"`
	ConfirmPassword string `form:"confirm_password" binding:"max=256"`
}

func NewAccountHandler(accountService *app.AccountService, authService *app.AuthService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, authService: authService, log: log}
}

func (h *AccountHandler) Show(c *gin.Context) {
	id := mustIdentity(c)
	user, err := h.authService.GetUserByID(c.Request.Context(), id.UserID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	if user == nil {
		c.Redirect(http.StatusFound, "/logout")
		return
	}
	render(c, http.StatusOK, "account.html", accountData(user.Username, user.Email))
}

func (h *AccountHandler) Update(c *gin.Context) {
	id := mustIdentity(c)
	var req AccountRequest
	if err := c.ShouldBind(&req); err != nil {
		renderInvalid(c, "account.html", fieldsTooLong, accountData(id.Username, req.Email))
		return
	}

	_, err := h.accountService.UpdateAccount(c.Request.Context(), app.UpdateAccountInput{
		UserID:          id.UserID,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if msg, ok := app.IsValidation(err); ok {
			renderInvalid(c, "account.html", msg, accountData(id.Username, req.Email))
			return
		}
		serverError(c, h.log, err)
		return
	}
	redirectWithFlash(c, flash.Success, "Account updated successfully.", "/my-account")
}

func accountData(username, email string) gin.H {
	return gin.H{"Title": "My account", "Username": username, "Email": email}
}

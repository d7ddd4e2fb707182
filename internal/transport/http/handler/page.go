package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafehub/internal/app"
	"cafehub/internal/transport/http/flash"
	"cafehub/internal/transport/http/middleware"
)

// render fills in the data every page expects before executing name.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if id, ok := middleware.CurrentIdentity(c); ok {
		data["CurrentUser"] = id
	}
	data["Flashes"] = flash.Pop(c)
	c.HTML(status, name, data)
}

// renderInvalid re-renders a form with the validation message flashed.
func renderInvalid(c *gin.Context, name, message string, data gin.H) {
	flash.Add(c, flash.Error, message)
	render(c, http.StatusBadRequest, name, data)
}

func redirectWithFlash(c *gin.Context, category, text, location string) {
	flash.Add(c, category, text)
	c.Redirect(http.StatusFound, location)
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
}

func serverError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":  "Error",
		"Status": http.StatusInternalServerError,
	})
}

// NotFound is the router's fallback for unmatched paths.
func NotFound(c *gin.Context) {
	notFound(c)
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func mustIdentity(c *gin.Context) app.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

// checked reports whether an HTML checkbox value counts as ticked.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cafehub/internal/app"
	"cafehub/internal/transport/http/flash"
)

type ReviewRequest struct {
	Rating  string `form:"rating" binding:"max=2"`
	Content string `form:"content" binding:"max=1000"`
}

// AddReview lives on the cafe handler so a rejected review can re-render
// the cafe page with the draft intact.
func (h *CafeHandler) AddReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		flash.Add(c, flash.Error, fieldsTooLong)
		h.showCafe(c, http.StatusBadRequest, id, parseRating(req.Rating), req.Content)
		return
	}
	rating := parseRating(req.Rating)

	_, err := h.reviews.Add(c.Request.Context(), app.AddReviewInput{
		CafeID:  id,
		UserID:  mustIdentity(c).UserID,
		Rating:  rating,
		Content: req.Content,
	})
	if err != nil {
		if msg, ok := app.IsValidation(err); ok {
			flash.Add(c, flash.Error, msg)
			h.showCafe(c, http.StatusBadRequest, id, rating, req.Content)
			return
		}
		if errors.Is(err, app.ErrCafeNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.log, err)
		return
	}
	redirectWithFlash(c, flash.Success, "Review added.", fmt.Sprintf("/%d", id))
}

func parseRating(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafehub/internal/app"
	"cafehub/internal/model"
	"cafehub/internal/transport/http/flash"
)

type CafeHandler struct {
	cafes   *app.CafeService
	reviews *app.ReviewService
	log     *zap.Logger
}

type CafeRequest struct {
	Name         string `form:"name" binding:"max=100"`
	MapURL       string `form:"map_url" binding:"max=1024"`
	ImgURL       string `form:"img_url" binding:"max=500"`
	Location     string `form:"location" binding:"max=250"`
	HasSockets   string `form:"has_sockets"`
	HasToilet    string `form:"has_toilet"`
	HasWifi      string `form:"has_wifi"`
	CanTakeCalls string `form:"can_take_calls"`
	Seats        string `form:"seats" binding:"max=10"`
	CoffeePrice  string `form:"coffee_price" binding:"max=16"`
}

func (r CafeRequest) input() app.CafeInput {
	return app.CafeInput{
		Name:         r.Name,
		MapURL:       r.MapURL,
		ImgURL:       r.ImgURL,
		Location:     r.Location,
		HasSockets:   checked(r.HasSockets),
		HasToilet:    checked(r.HasToilet),
		HasWifi:      checked(r.HasWifi),
		CanTakeCalls: checked(r.CanTakeCalls),
		Seats:        r.Seats,
		CoffeePrice:  r.CoffeePrice,
	}
}

const fieldsTooLong = "One or more fields are too long."

func NewCafeHandler(cafes *app.CafeService, reviews *app.ReviewService, log *zap.Logger) *CafeHandler {
	return &CafeHandler{cafes: cafes, reviews: reviews, log: log}
}

func (h *CafeHandler) Index(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"Cafes": cafes})
}

func (h *CafeHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	h.showCafe(c, http.StatusOK, id, model.MaxRating, "")
}

// showCafe renders the detail page, keeping any review draft the user submitted.
func (h *CafeHandler) showCafe(c *gin.Context, status int, cafeID uint, rating int, content string) {
	ctx := c.Request.Context()
	cafe, err := h.cafes.Get(ctx, cafeID)
	if err != nil {
		if errors.Is(err, app.ErrCafeNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.log, err)
		return
	}
	reviews, err := h.reviews.ListForCafe(ctx, cafe.ID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	render(c, status, "cafe.html", gin.H{
		"Title":   cafe.Name,
		"Cafe":    cafe,
		"IsOwner": cafe.OwnedBy(mustIdentity(c).UserID),
		"Reviews": reviews.Reviews,
		"Summary": reviews.Summary,
		"Rating":  rating,
		"Content": content,
	})
}

func (h *CafeHandler) New(c *gin.Context) {
	render(c, http.StatusOK, "cafe-form.html", formData("/add", false, app.CafeInput{}))
}

func (h *CafeHandler) Create(c *gin.Context) {
	var req CafeRequest
	if err := c.ShouldBind(&req); err != nil {
		renderInvalid(c, "cafe-form.html", fieldsTooLong, formData("/add", false, req.input()))
		return
	}

	input := req.input()
	if _, err := h.cafes.Create(c.Request.Context(), mustIdentity(c).UserID, input); err != nil {
		if msg, ok := app.IsValidation(err); ok {
			renderInvalid(c, "cafe-form.html", msg, formData("/add", false, input))
			return
		}
		serverError(c, h.log, err)
		return
	}
	redirectWithFlash(c, flash.Success, "Cafe added successfully!", "/")
}

func (h *CafeHandler) Edit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	cafe, err := h.cafes.GetOwned(c.Request.Context(), id, mustIdentity(c).UserID)
	if err != nil {
		h.ownershipFailure(c, err, "You can only edit cafes that you've added.")
		return
	}
	render(c, http.StatusOK, "cafe-form.html", formData(editAction(id), true, app.FromCafe(cafe)))
}

func (h *CafeHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	var req CafeRequest
	bindErr := c.ShouldBind(&req)
	input := req.input()

	// ownership first, so a stranger never learns anything from validation
	if _, err := h.cafes.GetOwned(c.Request.Context(), id, mustIdentity(c).UserID); err != nil {
		h.ownershipFailure(c, err, "You can only edit cafes that you've added.")
		return
	}
	if bindErr != nil {
		renderInvalid(c, "cafe-form.html", fieldsTooLong, formData(editAction(id), true, input))
		return
	}

	if _, err := h.cafes.Update(c.Request.Context(), id, mustIdentity(c).UserID, input); err != nil {
		if msg, ok := app.IsValidation(err); ok {
			renderInvalid(c, "cafe-form.html", msg, formData(editAction(id), true, input))
			return
		}
		h.ownershipFailure(c, err, "You can only edit cafes that you've added.")
		return
	}
	redirectWithFlash(c, flash.Success, "Cafe updated successfully!", fmt.Sprintf("/%d", id))
}

func (h *CafeHandler) ConfirmDelete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	cafe, err := h.cafes.GetOwned(c.Request.Context(), id, mustIdentity(c).UserID)
	if err != nil {
		h.ownershipFailure(c, err, "You can only delete cafes that you've added.")
		return
	}
	render(c, http.StatusOK, "delete.html", gin.H{"Title": "Delete " + cafe.Name, "Cafe": cafe})
}

func (h *CafeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	if err := h.cafes.Delete(c.Request.Context(), id, mustIdentity(c).UserID); err != nil {
		h.ownershipFailure(c, err, "You can only delete cafes that you've added.")
		return
	}
	redirectWithFlash(c, flash.Success, "Cafe deleted successfully!", "/")
}

func (h *CafeHandler) ownershipFailure(c *gin.Context, err error, forbidden string) {
	switch {
	case errors.Is(err, app.ErrCafeNotFound):
		notFound(c)
	case errors.Is(err, app.ErrForbidden):
		redirectWithFlash(c, flash.Error, forbidden, "/")
	default:
		serverError(c, h.log, err)
	}
}

func formData(action string, editing bool, form app.CafeInput) gin.H {
	title := "Add a cafe"
	if editing {
		title = "Edit cafe"
	}
	return gin.H{
		"Title":   title,
		"Action":  action,
		"Editing": editing,
		"Form":    form,
	}
}

func editAction(id uint) string {
	return fmt.Sprintf("/edit/%d", id)
}

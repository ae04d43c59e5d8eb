package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ehub-epfl/founders-explorer-api/internal/service"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
	"github.com/ehub-epfl/founders-explorer-api/pkg/response"
)

// RatingHandler handles rating submission and lookup. Both routes require a
// signed-in user.
type RatingHandler struct {
	service *service.RatingService
}

// NewRatingHandler constructs a rating handler.
func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{service: svc}
}

// Submit godoc
// @Summary Submit or overwrite a course rating
// @Tags Ratings
// @Accept json
// @Produce json
// @Param key path string true "Course key"
// @Param payload body service.SubmitRatingRequest true "Rating payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{key}/rating [put]
func (h *RatingHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	rating, err := h.service.Submit(c.Request.Context(), c.Param("key"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}

// Get godoc
// @Summary Get the signed-in user's rating for a course
// @Tags Ratings
// @Produce json
// @Param key path string true "Course key"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{key}/rating [get]
func (h *RatingHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rating, err := h.service.Get(c.Request.Context(), c.Param("key"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}

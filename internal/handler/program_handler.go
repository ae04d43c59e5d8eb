package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ehub-epfl/founders-explorer-api/internal/service"
	"github.com/ehub-epfl/founders-explorer-api/pkg/response"
)

// ProgramHandler serves the program tree and the derived dropdown options.
type ProgramHandler struct {
	service *service.ProgramService
}

// NewProgramHandler constructs a program handler.
func NewProgramHandler(svc *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{service: svc}
}

// Tree godoc
// @Summary Get the program tree
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs/tree [get]
func (h *ProgramHandler) Tree(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Tree(c.Request.Context()), nil)
}

// Levels godoc
// @Summary Get raw level labels grouped by degree
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs/levels [get]
func (h *ProgramHandler) Levels(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Levels(c.Request.Context()), nil)
}

// Options godoc
// @Summary Get dropdown options for a selection
// @Tags Programs
// @Produce json
// @Param degree query string false "Selected degree"
// @Param level query string false "Selected level"
// @Param major query string false "Selected major"
// @Param minor query string false "Selected minor"
// @Success 200 {object} response.Envelope
// @Router /programs/options [get]
func (h *ProgramHandler) Options(c *gin.Context) {
	options := h.service.Options(
		c.Request.Context(),
		c.Query("degree"),
		c.Query("level"),
		c.Query("major"),
		c.Query("minor"),
	)
	response.JSON(c, http.StatusOK, options, nil)
}

// Invalidate godoc
// @Summary Drop the cached program tree and level map
// @Tags Programs
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /programs/cache/invalidate [post]
func (h *ProgramHandler) Invalidate(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

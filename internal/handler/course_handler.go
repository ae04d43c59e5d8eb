package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/middleware"
	"github.com/ehub-epfl/founders-explorer-api/internal/service"
	"github.com/ehub-epfl/founders-explorer-api/pkg/response"
)

// CourseHandler handles course listing, detail and export endpoints.
type CourseHandler struct {
	catalog *service.CatalogService
	export  *service.ExportService
	ratings *service.RatingService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(catalogSvc *service.CatalogService, exportSvc *service.ExportService, ratingSvc *service.RatingService) *CourseHandler {
	return &CourseHandler{catalog: catalogSvc, export: exportSvc, ratings: ratingSvc}
}

// searchParams reads the filter, sort and view parameters shared by List and
// Export. Filter keys ride on the same query string as paging and sorting;
// unrecognized or malformed values fall back to defaults.
func searchParams(c *gin.Context) service.SearchParams {
	params := service.SearchParams{
		Filter: catalog.ParseQuery(c.Request.URL.Query()),
		Sort: catalog.SortSpec{
			Field: c.Query("sort"),
			Order: catalog.SortOrder(c.DefaultQuery("order", "desc")),
		},
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		params.PageSize = limit
	}
	if c.Query("view") == string(catalog.ViewGrid) {
		params.View = catalog.ViewGrid
	}
	params.Preference = catalog.Preference{
		Credits:  catalog.ParseDirection(c.Query("prefer_credits"), catalog.PreferMax),
		Workload: catalog.ParseDirection(c.Query("prefer_workload"), catalog.PreferMin),
	}
	return params
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param q query string false "Search keyword"
// @Param type query string false "Course type (optional or mandatory)"
// @Param semester query string false "Semester (Fall or Spring)"
// @Param degree query string false "Degree"
// @Param level query string false "Level"
// @Param major query string false "Major program"
// @Param minor query string false "Minor program"
// @Param min_credits query number false "Minimum credits"
// @Param max_credits query number false "Maximum credits"
// @Param sort query string false "Primary sort field"
// @Param order query string false "Sort direction (asc or desc)"
// @Param view query string false "View mode (list or grid)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	params := searchParams(c)
	courses, pagination, err := h.catalog.Search(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := string(catalog.ViewList)
	if params.View == catalog.ViewGrid {
		view = string(catalog.ViewGrid)
	}
	middleware.SetMeta(c, "view", view)
	response.JSON(c, http.StatusOK, courses, pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get course by coursebook key
// @Tags Courses
// @Produce json
// @Param key path string true "Course key"
// @Success 200 {object} response.Envelope
// @Router /courses/{key} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.catalog.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	// A signed-in caller sees their own rating alongside the course.
	if claims := claimsFromContext(c); claims != nil && h.ratings != nil {
		if rating, err := h.ratings.Get(c.Request.Context(), course.CourseKey, claims.UserID); err == nil {
			middleware.SetMeta(c, "user_rating", rating)
		}
	}
	response.JSON(c, http.StatusOK, course, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export the filtered catalog
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /courses/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	params := searchParams(c)
	file, err := h.export.Export(c.Request.Context(), params.Filter, params.Sort, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

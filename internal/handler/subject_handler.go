package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"courseshelf/internal/errors"
	"courseshelf/internal/service"
)

// SubjectHandler handles public and student-facing browsing endpoints.
type SubjectHandler struct {
	library service.LibraryService
}

// NewSubjectHandler creates a new subject handler.
func NewSubjectHandler(library service.LibraryService) *SubjectHandler {
	return &SubjectHandler{library: library}
}

// SubjectsResponse represents the public subject enumeration.
type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
}

// DashboardResponse represents a dashboard of files grouped by subject, in
// the registry's display order.
type DashboardResponse struct {
	Username string                 `json:"username,omitempty"`
	Subjects []SubjectFilesResponse `json:"subjects"`
}

// SubjectFilesResponse represents one subject's file listing.
type SubjectFilesResponse struct {
	Subject string   `json:"subject"`
	Files   []string `json:"files"`
}

// Index godoc
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Success 200 {object} SubjectsResponse
// @Router / [get]
func (h *SubjectHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, SubjectsResponse{
		Subjects: h.library.Subjects(c.Request().Context()),
	})
}

// StudentDashboard godoc
// @Summary List all subjects with their files
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /student [get]
func (h *SubjectHandler) StudentDashboard(c echo.Context) error {
	files, err := h.library.AllFiles(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	username, _ := c.Get("username").(string)
	return c.JSON(http.StatusOK, DashboardResponse{
		Username: username,
		Subjects: groupBySubject(h.library.Subjects(c.Request().Context()), files),
	})
}

func groupBySubject(order []string, files map[string][]string) []SubjectFilesResponse {
	grouped := make([]SubjectFilesResponse, 0, len(order))
	for _, name := range order {
		grouped = append(grouped, SubjectFilesResponse{Subject: name, Files: files[name]})
	}
	return grouped
}

// SubjectFiles godoc
// @Summary List files for one subject
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param name path string true "Subject name"
// @Success 200 {object} SubjectFilesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /subject/{name} [get]
func (h *SubjectHandler) SubjectFiles(c echo.Context) error {
	name := c.Param("name")
	files, err := h.library.SubjectFiles(c.Request().Context(), name)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, SubjectFilesResponse{
		Subject: name,
		Files:   files,
	})
}

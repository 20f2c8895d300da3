package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courseshelf/internal/errors"
	"courseshelf/internal/model"
	"courseshelf/internal/service"
)

// AdminHandler handles admin-only upload, delete and overview endpoints.
type AdminHandler struct {
	library service.LibraryService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(library service.LibraryService) *AdminHandler {
	return &AdminHandler{library: library}
}

// UploadResponse represents a successful upload.
type UploadResponse struct {
	Subject  string `json:"subject"`
	Filename string `json:"filename"`
}

// RecentDownloadsResponse represents the latest ledger entries.
type RecentDownloadsResponse struct {
	Downloads []model.DownloadRecord `json:"downloads"`
}

// Overview godoc
// @Summary List all subjects with their files
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin [get]
func (h *AdminHandler) Overview(c echo.Context) error {
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

// Upload godoc
// @Summary Upload a file to a subject
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param subject formData string true "Subject name"
// @Param file formData file true "File to upload"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin [post]
func (h *AdminHandler) Upload(c echo.Context) error {
	subjectName := c.FormValue("subject")

	fh, err := c.FormFile("file")
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrEmptyUpload)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable upload",
			Code:  "EMPTY_UPLOAD",
		})
	}
	defer src.Close()

	stored, err := h.library.Upload(c.Request().Context(), subjectName, fh.Filename, src)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, UploadResponse{
		Subject:  subjectName,
		Filename: stored,
	})
}

// Delete godoc
// @Summary Delete a file from a subject
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param subject path string true "Subject name"
// @Param filename path string true "Stored filename"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/delete/{subject}/{filename} [post]
func (h *AdminHandler) Delete(c echo.Context) error {
	subjectName := c.Param("subject")
	filename := c.Param("filename")

	if err := h.library.Delete(c.Request().Context(), subjectName, filename); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "file deleted",
	})
}

// RecentDownloads godoc
// @Summary List recent download ledger entries
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {object} RecentDownloadsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/downloads [get]
func (h *AdminHandler) RecentDownloads(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	downloads, err := h.library.RecentDownloads(c.Request().Context(), limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, RecentDownloadsResponse{Downloads: downloads})
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"courseshelf/internal/errors"
	"courseshelf/internal/service"
)

// DownloadHandler streams stored files to students and admins.
type DownloadHandler struct {
	library service.LibraryService
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(library service.LibraryService) *DownloadHandler {
	return &DownloadHandler{library: library}
}

// Download godoc
// @Summary Download a file from a subject
// @Tags downloads
// @Produce octet-stream
// @Security BearerAuth
// @Param subject path string true "Subject name"
// @Param filename path string true "Stored filename"
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /download/{subject}/{filename} [get]
func (h *DownloadHandler) Download(c echo.Context) error {
	subjectName := c.Param("subject")
	filename := c.Param("filename")

	content, err := h.library.Download(c.Request().Context(), subjectName, filename)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	defer content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, content)
}

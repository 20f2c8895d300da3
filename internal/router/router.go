package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"courseshelf/internal/auth"
	"courseshelf/internal/errors"
	"courseshelf/internal/handler"
)

// roleRank orders roles for minimum-role checks. Anonymous requests never
// reach the check; they are stopped by the JWT middleware.
var roleRank = map[string]int{
	auth.RoleStudent: 1,
	auth.RoleAdmin:   2,
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	subjectHandler *handler.SubjectHandler,
	adminHandler *handler.AdminHandler,
	downloadHandler *handler.DownloadHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET("/", subjectHandler.Index)
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.POST("/refresh", authHandler.Refresh)

	// Authenticated routes (student or admin)
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "authentication required",
				Code:  "UNAUTHORIZED",
			})
		},
	}), sessionGate(tokenStore))

	secured.GET("/logout", authHandler.Logout)

	student := secured.Group("", requireRole(auth.RoleStudent))
	student.GET("/student", subjectHandler.StudentDashboard)
	student.GET("/subject/:name", subjectHandler.SubjectFiles)
	student.GET("/download/:subject/:filename", downloadHandler.Download)

	// Admin-only routes
	admin := secured.Group("/admin", requireRole(auth.RoleAdmin))
	admin.GET("", adminHandler.Overview)
	admin.POST("", adminHandler.Upload)
	admin.POST("/delete/:subject/:filename", adminHandler.Delete)
	admin.GET("/downloads", adminHandler.RecentDownloads)
}

// sessionGate runs after the JWT middleware: it rejects blacklisted tokens
// and exposes the session identity to handlers.
func sessionGate(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid session",
					Code:  "UNAUTHORIZED",
				})
			}

			if blacklisted, _ := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID); blacklisted {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "session has been logged out",
					Code:  "UNAUTHORIZED",
				})
			}

			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

// requireRole enforces the minimum role for a route group.
func requireRole(minRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if roleRank[role] < roleRank[minRole] {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient privileges",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

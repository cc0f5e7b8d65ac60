package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"medmsg/internal/auth"
	"medmsg/internal/config"
	"medmsg/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.SugaredLogger,
	authHandler *handler.AuthHandler,
	messageHandler *handler.MessageHandler,
	notificationHandler *handler.NotificationHandler,
	departmentHandler *handler.DepartmentHandler,
) {
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/departments", departmentHandler.List)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", authHandler.Me)
	secured.GET("/contacts", authHandler.Contacts)

	// Message routes
	secured.POST("/messages", messageHandler.Send)
	secured.GET("/messages", messageHandler.Inbox)
	secured.GET("/messages/recent", messageHandler.Recent)
	secured.GET("/messages/:id", messageHandler.Get)
	secured.POST("/messages/:id/read", messageHandler.MarkRead)
	secured.GET("/messages/:id/attachment", messageHandler.DownloadAttachment)

	// Notification digest
	secured.GET("/notifications", notificationHandler.Notifications)
}

// requestLogger logs HTTP requests with method, path, status and duration.
func requestLogger(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			dur := time.Since(start)
			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			log.Infow("http",
				"method", c.Request().Method,
				"path", c.Request().RequestURI,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return err
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

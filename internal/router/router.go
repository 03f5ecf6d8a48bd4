package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"answerme/docs"
	"answerme/internal/auth"
	"answerme/internal/config"
	"answerme/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	keywordHandler *handler.KeywordHandler,
	threadHandler *handler.ThreadHandler,
	subscriptionHandler *handler.SubscriptionHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/subscription/plans", subscriptionHandler.Plans)

	// Secured routes (require a bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/auth/me", authHandler.Me)

	// Keyword routes
	secured.GET("/keywords", keywordHandler.List)
	secured.POST("/keywords", keywordHandler.Add)
	secured.DELETE("/keywords/:id", keywordHandler.Remove)

	// Thread routes; /threads/today must not be captured by /threads/:id
	secured.GET("/threads", threadHandler.List)
	secured.GET("/threads/today", threadHandler.Today)
	secured.GET("/threads/:id", threadHandler.Get)
	secured.DELETE("/threads/:id", threadHandler.Delete)
	secured.POST("/threads/:id/query", threadHandler.Query)

	// Subscription routes
	secured.POST("/subscription/upgrade", subscriptionHandler.Upgrade)
	secured.PUT("/admin/users/:id/subscription", subscriptionHandler.SetSubscription)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

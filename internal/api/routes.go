package api

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"gonadarena/internal/api/handlers"
	"gonadarena/internal/api/middleware"
	"gonadarena/internal/api/ws"
	"gonadarena/internal/config"
	"gonadarena/internal/metrics"
)

type Handlers struct {
	Gladiators *handlers.GladiatorHandler
	Battles    *handlers.BattleHandler
	Tokens     *handlers.TokenHandler
	Social     *handlers.SocialHandler
	Images     *handlers.ImageHandler
	Actions    *handlers.ActionHandler
	Operator   *handlers.OperatorHandler
}

func SetupRoutes(e *echo.Echo, cfg *config.Config, h Handlers, hub *ws.Hub, log zerolog.Logger) {
	e.HideBanner = true
	e.Validator = handlers.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echo.WrapMiddleware(middleware.RequestID(log)))
	e.Use(otelecho.Middleware(cfg.Telemetry.ServiceName))
	e.Use(metrics.PrometheusMiddleware())

	e.GET("/health", healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/ws", echo.WrapHandler(http.HandlerFunc(hub.ServeWS)))

	apiGroup := e.Group("/api")

	apiGroup.GET("/gladiator-images", h.Images.GetImages)
	apiGroup.GET("/gladiator-images/:address", h.Images.GetImage)
	apiGroup.POST("/gladiator-images", h.Images.PostImage)

	apiGroup.GET("/social-events", h.Social.GetEvents)
	apiGroup.POST("/social-events", h.Social.PostEvent)

	apiGroup.GET("/gladiators/search", h.Gladiators.Search)
	apiGroup.GET("/gladiators/:address", h.Gladiators.GetGladiator)
	apiGroup.GET("/leaderboard", h.Gladiators.GetLeaderboard)

	apiGroup.GET("/battles/recent", h.Battles.GetRecent)
	apiGroup.GET("/battles/:address", h.Battles.GetHistory)

	apiGroup.GET("/token/:address", h.Tokens.GetStatus)
	apiGroup.GET("/airdrop/:address", h.Tokens.GetAirdrop)
	apiGroup.GET("/presale/:address", h.Tokens.GetPresale)

	jwtConfig := echojwt.Config{
		SigningKey: []byte(cfg.JWTKey),
		ContextKey: "user",
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		},
	}

	operatorOnly := []echo.MiddlewareFunc{
		echojwt.WithConfig(jwtConfig),
		middleware.ExtractOperatorFromJWT(),
		middleware.RequireOperator(),
	}

	actions := apiGroup.Group("/actions", operatorOnly...)

	actions.POST("/gladiator", h.Actions.CreateGladiator)
	actions.POST("/kill", h.Actions.Kill)
	actions.POST("/fight", h.Actions.Fight)
	actions.POST("/airdrop", h.Actions.ClaimAirdrop)
	actions.POST("/presale", h.Actions.ClaimPresale)
	actions.POST("/flex", h.Actions.Flex)
	actions.POST("/meme", h.Actions.PostMeme)
	actions.GET("/:id", h.Actions.GetTransaction)

	operator := apiGroup.Group("/operator", operatorOnly...)
	operator.GET("/roster", h.Operator.GetRoster)
	operator.POST("/roster/pause", h.Operator.PauseRoster)
	operator.POST("/roster/resume", h.Operator.ResumeRoster)
	operator.POST("/roster/refresh", h.Operator.RefreshRoster)
}

func healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gatherly/internal/handler/api"
	"gatherly/internal/handler/middleware"
	"gatherly/internal/infra/ratelimit"
	"gatherly/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// RateLimiters holds the per-endpoint fixed-window limiters. Each write
// endpoint gets its own budget so a checkout burst cannot starve check-in.
type RateLimiters struct {
	RSVP     *ratelimit.FixedWindowLimiter
	Checkout *ratelimit.FixedWindowLimiter
	CheckIn  *ratelimit.FixedWindowLimiter
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	rsvpHandler *api.RSVPHandler,
	checkInHandler *api.CheckInHandler,
	checkoutHandler *api.CheckoutHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiters RateLimiters,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, rsvpHandler, checkInHandler, checkoutHandler, webhookHandler, authMiddleware, limiters)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	rsvpHandler *api.RSVPHandler,
	checkInHandler *api.CheckInHandler,
	checkoutHandler *api.CheckoutHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiters RateLimiters,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		events := apiGroup.Group("/events")
		{
			addRoutes(events, []route{
				{Method: http.MethodGet, Path: "/:id/admission", Handler: rsvpHandler.GetAdmissionSnapshot, Mw: []gin.HandlerFunc{authMiddleware.OptionalAuth()}},
			})

			authRequired := events.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/:id/rsvp", Handler: rsvpHandler.SubmitRSVP, Mw: []gin.HandlerFunc{middleware.RateLimit(limiters.RSVP)}},
				{Method: http.MethodPost, Path: "/:id/checkin", Handler: checkInHandler.CheckIn, Mw: []gin.HandlerFunc{middleware.RateLimit(limiters.CheckIn)}},
			})
		}

		checkout := apiGroup.Group("/checkout")
		checkout.Use(authMiddleware.RequireAuth())
		{
			addRoutes(checkout, []route{
				{Method: http.MethodPost, Path: "", Handler: checkoutHandler.BeginCheckout, Mw: []gin.HandlerFunc{middleware.RateLimit(limiters.Checkout)}},
			})
		}

		// Authenticated by HMAC signature, not a bearer token.
		webhooks := apiGroup.Group("/webhooks")
		{
			addRoutes(webhooks, []route{
				{Method: http.MethodPost, Path: "/payment", Handler: webhookHandler.Receive},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

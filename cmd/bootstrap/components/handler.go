package components

import (
	"time"

	"gatherly/internal/handler"
	"gatherly/internal/handler/api"
	"gatherly/internal/handler/middleware"
	"gatherly/internal/infra/ratelimit"
	"gatherly/internal/pkg/clock"
	"gatherly/internal/pkg/config"
	"gatherly/internal/usecase/commands"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRSVPHandler,
		api.NewCheckInHandler,
		api.NewCheckoutHandler,
		NewWebhookHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiters,
	),
	fx.Invoke(handler.NewRouter),
)

func NewWebhookHandler(cfg config.Config, paymentCommands commands.PaymentCommands) *api.WebhookHandler {
	return api.NewWebhookHandler(paymentCommands, cfg.Gateway.WebhookSecret)
}

func NewRateLimiters(cfg config.Config, store ratelimit.CounterStore, clk clock.Clock) handler.RateLimiters {
	return handler.RateLimiters{
		RSVP:     ratelimit.NewFixedWindowLimiter("rsvp", int64(cfg.RateLimit.RSVPPerMinute), time.Minute, store, clk),
		Checkout: ratelimit.NewFixedWindowLimiter("checkout", int64(cfg.RateLimit.CheckoutPerMinute), time.Minute, store, clk),
		CheckIn:  ratelimit.NewFixedWindowLimiter("checkin", int64(cfg.RateLimit.CheckInPerMinute), time.Minute, store, clk),
	}
}

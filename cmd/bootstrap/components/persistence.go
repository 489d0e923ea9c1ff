package components

import (
	"gatherly/internal/infra/db"
	"gatherly/internal/infra/gateway"
	"gatherly/internal/infra/notify"
	"gatherly/internal/infra/ratelimit"
	"gatherly/internal/infra/readstore"
	"gatherly/internal/infra/repository"
	"gatherly/internal/infra/uow"
	"gatherly/internal/pkg/config"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/queries"
	"gatherly/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Idempotency (pool-scoped: the guard claims keys outside the
		// business transaction)
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(shared.IdempotencyRepository)),
		),
		// Admission read side
		fx.Annotate(
			readstore.NewAdmissionReadStore,
			fx.As(new(queries.AdmissionReadStore)),
		),
		// Rate counters
		fx.Annotate(
			repository.NewRateCounterRepository,
			fx.As(new(ratelimit.CounterStore)),
		),
		// Payment gateway client
		fx.Annotate(
			NewGatewayClient,
			fx.As(new(commands.PaymentGateway)),
		),
		// Notification job queue
		fx.Annotate(
			notify.NewJobNotifier,
			fx.As(new(commands.Notifier)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewGatewayClient(cfg config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Gateway)
}

package components

import (
	"gatherly/internal/pkg/clock"
	"gatherly/internal/usecase/commands"
	"gatherly/internal/usecase/queries"
	"gatherly/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	shared.NewIdempotencyGuard,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAdmissionUseCase,
		commands.NewCheckInUseCase,
		commands.NewCheckoutUseCase,
		commands.NewPaymentUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAdmissionQueries,
	),
)

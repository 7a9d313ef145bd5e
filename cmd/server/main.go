package main

import (
	"context"
	"log/slog"
	"os"

	"classroom/config"
	"classroom/internal/delivery"
	"classroom/internal/delivery/http"
	"classroom/internal/delivery/http/middleware"
	"classroom/internal/delivery/http/router/handler"
	"classroom/internal/domain/service"
	"classroom/internal/infra/auth"
	logs "classroom/internal/infra/log"
	"classroom/internal/infra/persistence/postgres"
	"classroom/internal/infra/pubsub"
	"classroom/internal/infra/storage"
	"classroom/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		storage.Module,
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Provide(
		postgres.NewTransactionManager,
		postgres.NewUserRepository,
		postgres.NewRoleRepository,
		postgres.NewCourseRepository,
		postgres.NewGroupRepository,
		postgres.NewAssignmentRepository,
		postgres.NewAnalyzerRepository,
		postgres.NewReportRepository,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		auth.NewBcryptHasher,
		auth.NewJWTIssuer,
		newGuard,
	)
}

// newGuard builds the authorization guard from the configured role set.
func newGuard(cfg *config.Config) *service.Guard {
	return service.NewGuard(cfg.Roles)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewSessionService,
		impl.NewAuthService,
		impl.NewUserService,
		impl.NewCourseService,
		impl.NewAssignmentService,
		impl.NewAnalyzerService,
		impl.NewReportService,
	)
}

func injectMiddleware() fx.Option {
	return fx.Provide(
		middleware.NewAuthMiddleware,
		middleware.NewErrorMiddleware,
		middleware.NewRequestIDMiddleware,
	)
}

func injectHandler() fx.Option {
	return fx.Provide(
		handler.NewAuthHandler,
		handler.NewUserHandler,
		handler.NewCourseHandler,
		handler.NewAssignmentHandler,
		handler.NewAnalyzerHandler,
		handler.NewReportHandler,
	)
}

func injectDelivery() fx.Option {
	return fx.Provide(
		fx.Annotate(
			http.NewServer,
			fx.ResultTags(`group:"deliveries"`),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/golfworks/fittings/internal/auth"
	"github.com/golfworks/fittings/internal/config"
	"github.com/golfworks/fittings/internal/db"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/observability"
	"github.com/golfworks/fittings/internal/repository"
	"github.com/golfworks/fittings/internal/service"
	"github.com/golfworks/fittings/internal/transport/grpchealth"
	"github.com/golfworks/fittings/internal/transport/rest"
)

const serviceName = "fittings-api"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load db config")
	}

	observability.InitLogger(serviceName, cfg.Env)
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracer")
	}

	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init db")
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto migrate")
	}

	pub := newPublisher(cfg)
	loc, _ := cfg.Location() // validated by config.Load

	swingInitial, err := model.SwingStatuses.Parse(cfg.SwingInitialStatus)
	if err != nil {
		log.Fatal().Err(err).Msg("SWING_INITIAL_STATUS")
	}

	store := repository.NewStore(gormDB)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	swings, err := service.NewSwingService(store, pub, swingInitial)
	if err != nil {
		log.Fatal().Err(err).Msg("init swing service")
	}

	router := rest.NewRouter(rest.Deps{
		Pinger:   rest.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }),
		Tokens:   tokens,
		Identity: service.NewIdentityService(store.Users, tokens),
		Fittings: service.NewFittingService(store, pub, service.FittingOptions{
			Location:       loc,
			IgnoreCanceled: cfg.RescheduleIgnoreCanceled,
		}),
		Swings:         swings,
		GettingStarted: service.NewGettingStartedService(store, pub),
		AdminTasks:     service.NewAdminTaskService(store),
		Location:       loc,
	})

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http serve")
		}
	}()

	health := grpchealth.New(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }, cfg.HealthInterval, log.Logger)
	lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCHealthAddr).Msg("listen grpc health")
	}
	go health.Watch(ctx)
	go func() {
		log.Info().Str("addr", cfg.GRPCHealthAddr).Msg("grpc health server listening")
		if err := health.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc health serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	health.Stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	closeAll(shutdownCtx, pub, gormDB, shutdownTracer)
}

func newPublisher(cfg config.App) events.Publisher {
	if cfg.RabbitURL == "" {
		log.Warn().Msg("RABBIT_URL not set, domain events are dropped")
		return events.NopPublisher{}
	}
	pub, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("init event publisher")
	}
	return pub
}

func closeAll(ctx context.Context, pub events.Publisher, gormDB *gorm.DB, shutdownTracer func(context.Context) error) {
	if err := pub.Close(); err != nil {
		log.Error().Err(err).Msg("close publisher")
	}
	if err := db.Close(gormDB); err != nil {
		log.Error().Err(err).Msg("close db")
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown tracer")
	}
}

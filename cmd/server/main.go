package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"goban/internal/adapters"
	"goban/internal/bootstrap"
	gameDelivery "goban/internal/delivery/game"
	ownMiddleware "goban/internal/middleware"
	repo "goban/internal/repository"
	"goban/internal/repository/sqlite"
	gameUseCase "goban/internal/usecase/game"
)

type storage struct {
	games     gameUseCase.GameStore
	snapshots gameUseCase.SnapshotCache
	closers   []func(context.Context) error
}

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		NewLogger(true).Fatal("Failed to setup configuration", zap.Error(err))
	}
	logger := NewLogger(cfg.LogDevelopment)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	store, err := initStorage(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.close(logger)

	gameUC := gameUseCase.NewGameUseCase(store.games, store.snapshots, logger)
	gameHandler := gameDelivery.NewGameHandler(logger, gameUC)

	r := chi.NewRouter()
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	gameHandler.Routes(r)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	logger.Infof("Server is running on port %s (store %s)", cfg.ServerPort, cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger(development bool) *zap.SugaredLogger {
	build := zap.NewProduction
	if development {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func initStorage(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (*storage, error) {
	s := &storage{}

	switch cfg.StoreDriver {
	case bootstrap.StoreMongo:
		mongoAdapter := adapters.NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			return nil, err
		}
		s.closers = append(s.closers, mongoAdapter.Close)
		s.games = repo.NewMongoGameRepository(log, mongoAdapter.Database)
	case bootstrap.StoreSQLite:
		db, err := sqlite.Open(cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		s.games = db
		log.Infof("using SQLite store at %s", cfg.SqlitePath)
	default:
		s.games = repo.NewGameMapStorage()
		log.Info("using in-memory store; games are lost on restart")
	}

	if cfg.RedisUrl == "" {
		s.snapshots = repo.NewSnapshotMapStorage()
		return s, nil
	}
	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		s.close(log)
		return nil, err
	}
	s.closers = append(s.closers, redisAdapter.Close)
	s.snapshots = repo.NewSnapshotRedisStorage(redisAdapter.GetClient(), cfg.SnapshotTTL)
	return s, nil
}

func (s *storage) close(log *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Errorf("close storage: %v", err)
		}
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}

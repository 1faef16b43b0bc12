package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"climatesolutions/config"
	"climatesolutions/db"
	"climatesolutions/db/mongo"
	"climatesolutions/db/postgres"
	"climatesolutions/db/sqlite"
	"climatesolutions/handlers"
	"climatesolutions/logger"
	"climatesolutions/metrics"
	"climatesolutions/middleware"
	"climatesolutions/repository"
	"climatesolutions/routes"
	"climatesolutions/services"
	"climatesolutions/session"
	"climatesolutions/views"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load config from .env or the environment
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration: ", err)
		os.Exit(1)
	}

	logDir := ""
	if cfg.Debug {
		logDir = "logs"
	}
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel), logDir)
	defer logger.CloseLogger()

	if err := run(cfg); err != nil {
		logger.Error("unable to start server: ", err)
		logger.CloseLogger()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
	if err := mg.Connect(); err != nil {
		return err
	}
	defer mg.Disconnect()

	catalogConn, catalogRepo, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalogConn.Disconnect()

	accounts := services.NewAccountService(repository.NewMongoUserRepo(mg.DB()))
	catalog := services.NewCatalogService(catalogRepo, cfg.IsProduction())

	// Both stores must be ready before the listener accepts requests.
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return accounts.Initialize(ctx) })
	g.Go(func() error { return catalog.Initialize(ctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, 5*time.Minute)
	defer limiter.Stop()

	engine, err := newEngine(cfg, accounts, catalog, limiter, reg, mg, catalogConn)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running on port %s (%s mode, %s catalog)", cfg.Port, cfg.Mode, cfg.CatalogDB)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Infof("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCatalog connects the relational store selected by CATALOG_DB.
func openCatalog(cfg *config.Config) (db.DB, repository.CatalogRepository, error) {
	switch db.DBType(cfg.CatalogDB) {
	case db.Postgres:
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			return nil, nil, err
		}
		return pg, repository.NewPostgresCatalogRepo(pg.Conn), nil

	case db.SQLite:
		lite := sqlite.NewSQLiteDB(cfg.SQLitePath, cfg.Debug)
		if err := lite.Connect(); err != nil {
			return nil, nil, err
		}
		return lite, repository.NewGormCatalogRepo(lite.Gorm), nil

	default:
		return nil, nil, errors.New("CATALOG_DB not supported: " + cfg.CatalogDB)
	}
}

func newEngine(
	cfg *config.Config,
	accounts *services.AccountService,
	catalog *services.CatalogService,
	limiter *middleware.RateLimiter,
	reg *prometheus.Registry,
	stores ...db.DB,
) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	policy := session.Policy{
		Duration: cfg.SessionDuration,
		Active:   cfg.SessionActiveDuration,
		Secure:   cfg.IsProduction(),
	}
	store, err := session.NewStore(cfg.SessionSecret, policy)
	if err != nil {
		return nil, err
	}

	tpl, err := views.Templates()
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(reg)

	engine := gin.New()
	engine.SetHTMLTemplate(tpl)
	engine.Use(
		middleware.RequestLogger(collector),
		handlers.RecoverWrapper(),
		session.Middleware(store),
		middleware.SessionWindow(policy, time.Now),
	)

	checks := map[string]func(ctx context.Context) error{}
	for _, s := range stores {
		switch conn := s.(type) {
		case *mongo.MongoDB:
			checks["mongo"] = func(ctx context.Context) error { return conn.Client.Ping(ctx, nil) }
		case *postgres.PostgresDB:
			checks["catalog"] = conn.Conn.PingContext
		case *sqlite.SQLiteDB:
			checks["catalog"] = func(ctx context.Context) error {
				sqlDB, err := conn.Gorm.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}
		}
	}

	routes.SetupRoutes(engine, routes.Handlers{
		Pages: &handlers.PageHandler{Checks: checks},
		Auth: &handlers.AuthHandler{
			Accounts: accounts,
			Session:  policy,
			Metrics:  collector,
			Now:      time.Now,
		},
		Projects:     &handlers.ProjectHandler{Catalog: catalog},
		LoginLimiter: limiter,
		Metrics:      metrics.Handler(reg),
	})
	return engine, nil
}

package app

import (
	"context"
	"fmt"
	"net/http"

	"hatim-app-go/internal/config"
	"hatim-app-go/internal/db"
	hatimdomain "hatim-app-go/internal/domain/hatim"
	teamdomain "hatim-app-go/internal/domain/team"
	userdomain "hatim-app-go/internal/domain/user"
	"hatim-app-go/internal/metrics"
	"hatim-app-go/internal/repository/inmemory"
	hatimrepo "hatim-app-go/internal/repository/postgres/hatim"
	teamrepo "hatim-app-go/internal/repository/postgres/team"
	userrepo "hatim-app-go/internal/repository/postgres/user"
	"hatim-app-go/internal/transport/httpserver"
	"hatim-app-go/internal/transport/httpserver/handler"
	"hatim-app-go/internal/transport/httpserver/handler/callable"
	"hatim-app-go/internal/transport/httpserver/handler/common"
	"hatim-app-go/internal/transport/httpserver/handler/hatims"
	"hatim-app-go/internal/transport/httpserver/handler/teams"
	"hatim-app-go/internal/worker"
	"hatim-app-go/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type repositories struct {
	teams    teamdomain.Repository
	hatims   hatimdomain.Repository
	profiles userdomain.Repository
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB

	Teams    *teamdomain.Service
	Hatims   *hatimdomain.Service
	Profiles *userdomain.Service

	changes        <-chan hatimdomain.Change
	listener       *hatimrepo.Listener
	stopListener   context.CancelFunc
	listenerDone   chan struct{}
	trigger        *worker.CompletionTrigger
	triggerStarted bool
}

func New(cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	repos, err := a.initRepositories()
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing services", "store", cfg.Store, "total_pages", cfg.Hatim.TotalPages)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewPrometheus(registry, "")

	a.Profiles = userdomain.NewService(repos.profiles)
	a.Teams = teamdomain.NewServiceWithConfig(repos.teams, teamdomain.Config{
		Metrics:  collector,
		Cache:    inmemory.NewInMemoryTeamCache(),
		CacheTTL: cfg.Hatim.TeamCacheTTL,
	})
	a.Hatims = hatimdomain.NewServiceWithConfig(repos.hatims, a.Teams, hatimdomain.Config{
		TotalPages: cfg.Hatim.TotalPages,
		Metrics:    collector,
	})

	if cfg.Hatim.TriggerEnabled {
		a.trigger = worker.NewCompletionTrigger(a.changes, a.Hatims, log, cfg.Hatim.SweepInterval)
	}

	log.Info("app: initializing router")
	handlers := &handler.Handlers{
		Common:   common.New(a.Profiles, log),
		Teams:    teams.New(a.Teams, log),
		Hatims:   hatims.New(a.Hatims, log),
		Callable: callable.New(a.Teams, a.Hatims, log),
	}
	router := httpserver.NewRouter(cfg, handlers, a.Profiles, collector, registry, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

func (a *App) initRepositories() (repositories, error) {
	if a.cfg.Store == config.StoreMemory {
		a.log.Warn("app: using in-memory store, data is lost on restart")
		hatimRepo := inmemory.NewInMemoryHatimRepository()
		if a.cfg.Hatim.TriggerEnabled {
			a.changes = hatimRepo.Subscribe()
		}
		return repositories{
			teams:    inmemory.NewInMemoryTeamRepository(),
			hatims:   hatimRepo,
			profiles: inmemory.NewInMemoryProfileRepository(),
		}, nil
	}

	a.log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(a.cfg.DB, a.log)
	if err != nil {
		return repositories{}, err
	}
	a.db = dbConn

	if a.cfg.DB.AutoMigrate {
		if _, err := db.Migrate(dbConn, a.log); err != nil {
			_ = a.closeDB()
			return repositories{}, err
		}
	}

	if a.cfg.Hatim.TriggerEnabled {
		a.listener = hatimrepo.NewListener(a.cfg.DB.GetDSN(), a.log)
		a.changes = a.listener.Changes()
	}

	return repositories{
		teams:    teamrepo.NewPostgres(dbConn),
		hatims:   hatimrepo.NewPostgres(dbConn),
		profiles: userrepo.NewPostgres(dbConn),
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// StartBackground starts the change listener and the completion trigger.
// It is a no-op when the trigger is disabled.
func (a *App) StartBackground() {
	if a.listener != nil && a.stopListener == nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopListener = cancel
		a.listenerDone = make(chan struct{})
		go func() {
			defer close(a.listenerDone)
			a.listener.Run(ctx)
		}()
	}
	if a.trigger != nil && !a.triggerStarted {
		a.trigger.Start()
		a.triggerStarted = true
	}
}

func (a *App) Close() error {
	if a.stopListener != nil {
		a.stopListener()
		<-a.listenerDone
	}
	if a.trigger != nil && a.triggerStarted {
		a.trigger.Stop()
	}
	return a.closeDB()
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	return sqlDB.Close()
}

// Package entrypoint wires the application together: database, stats
// providers, sessions, background tasks, scheduler and HTTP router.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/database/books"
	"bookshelf/internal/database/genres"
	"bookshelf/internal/demo"
	http_controllers "bookshelf/internal/http"
	"bookshelf/internal/scheduler"
	"bookshelf/internal/session"
	"bookshelf/internal/stats"
	"bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds every component from configuration and serves until
// shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	var demoMiddleware *demo.Middleware
	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - write operations will be blocked")
		demoMiddleware = demo.NewMiddleware(true)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := db.EnsureDefaultGenres(); err != nil {
		log.Printf("Default genre seeding skipped: %v", err)
	}

	bookRepo := books.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)

	// Ranked stats providers: live database first, canned demo data as
	// the last resort so the dashboard always renders.
	aggregator := stats.NewAggregator(
		[]stats.Provider{
			stats.NewDatabaseProvider(db.DB, cfg.Stats.ConnectTimeout, cfg.Stats.QueryTimeout),
			demo.NewStatsProvider(),
		},
		stats.WithCacheTTL(cfg.Stats.CacheTTL),
	)

	// Initialize sessions (saved filters, recent searches) if enabled
	var sessionManager *session.Manager
	var csrfSecret []byte
	if cfg.Sessions.Enabled {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = session.NewManager(sqlDB, cfg.Sessions)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		if cfg.Sessions.CSRFSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Sessions.CSRFSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Sessions.CSRFSecret)
			}
		} else {
			csrfSecret = session.GenerateCSRFSecret()
			log.Printf("Generated CSRF secret (set CSRF_SECRET to persist)")
		}
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var warmScheduler *scheduler.StatsWarmScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromApp(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewWarmStatsQueue(aggregator),
			tasks.NewCleanupOrphanGenresQueue(genreRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Stats.WarmEnabled {
			warmScheduler = scheduler.NewStatsWarmScheduler(taskClient, cfg.Stats.WarmSchedule)
			if err := warmScheduler.Start(); err != nil {
				log.Fatalf("Failed to start stats warm scheduler: %v", err)
			}
		}
	}

	routerCfg := http_controllers.RouterConfig{
		BookStore:      bookRepo,
		GenreStore:     genreRepo,
		Database:       db,
		Aggregator:     aggregator,
		ProgressStore:  bookRepo,
		Goals:          cfg.Goals,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Sessions.SecureCookies,
		DemoMiddleware: demoMiddleware,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		if warmScheduler != nil {
			warmScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		if taskCtxCancel != nil {
			taskCtxCancel()
		}
	})
}

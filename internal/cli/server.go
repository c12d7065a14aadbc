package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"movie-quiz-service/internal/ai"
	"movie-quiz-service/internal/app"
	"movie-quiz-service/internal/catalog"
	"movie-quiz-service/internal/config"
	"movie-quiz-service/internal/infra/memory"
	"movie-quiz-service/internal/infra/postgres"
	redisstore "movie-quiz-service/internal/infra/redis"
	transport "movie-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, found, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if !found {
		log.Printf("config %s not found, using defaults", configPath)
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	history, closeHistory, err := openHistory(cfg, b)
	if err != nil {
		return err
	}
	defer closeHistory()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()

	movies := newQuizCatalog(cfg, b)
	service := app.NewQuizService(openSessions(sweepCtx, cfg, b), movies.bootstrap, newImageGenerator(cfg), history)
	service.SetImageTimeout(config.TTLDuration(cfg.Quiz.ImageTimeout, 90*time.Second))

	mux := http.NewServeMux()
	mux.Handle("/healthz", transport.NewHealthHandler(movies.upstream))
	mux.HandleFunc("/ws", transport.NewWSHandler(service).ServeWS)
	mux.Handle("/history", transport.NewHistoryHandler(service))
	mux.Handle("/cache/clear", transport.NewCacheHandler(movies.cache))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// quizCatalog is the movie side of the server wiring.
type quizCatalog struct {
	bootstrap *app.Bootstrapper
	cache     transport.MovieCache
	// upstream is nil when the sample catalog is served.
	upstream transport.Pinger
}

// newQuizCatalog wires the catalog and the optional AI collaborators. Without
// a RapidAPI key the built-in sample catalog is served.
func newQuizCatalog(cfg config.Config, b *backends) quizCatalog {
	var (
		qc      quizCatalog
		loader  memory.MovieLoader
		content catalog.ContentSource
		pool    = cfg.Catalog.MovieIDs
	)
	if cfg.Catalog.APIKey != "" {
		client := catalog.NewClient(nil, cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Host)
		loader, content = client, client
		qc.upstream = client
	} else {
		log.Printf("no RapidAPI key configured, serving the sample catalog")
		static := sampleCatalog()
		loader, content = static, static
		pool = static.IDs()
	}
	if b.pool != nil {
		loader = postgres.NewMovieStore(b.pool, loader)
	}

	cacheTTL := config.TTLDuration(cfg.Catalog.CacheTTL, 24*time.Hour)
	var movies catalog.MovieSource
	if b.redis != nil {
		repo := redisstore.NewMovieRepository(b.redis, loader, cacheTTL)
		movies, qc.cache = repo, repo
	} else {
		repo := memory.NewMovieRepository(loader, cacheTTL)
		movies, qc.cache = repo, repo
	}

	var (
		sanitizer app.KeywordSanitizer
		questions app.TriviaQuestionGenerator
	)
	if cfg.OpenRouter.APIKey != "" {
		client := ai.NewOpenRouterClient(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.OpenRouter.BaseURL)
		sanitizer, questions = client, client
	} else {
		log.Printf("no OpenRouter key configured, keyword cleanup and trivia are disabled")
	}

	qc.bootstrap = app.NewBootstrapper(catalog.New(movies, content, pool), sanitizer, questions, app.BootstrapConfig{
		MaxKeywords:      cfg.MaxKeywords(),
		EnableImages:     cfg.ImagesEnabled(),
		SanitizeKeywords: cfg.SanitizeKeywords(),
	})
	return qc
}

func newImageGenerator(cfg config.Config) app.ImageGenerator {
	if !cfg.ImagesEnabled() || cfg.Gemini.APIKey == "" {
		return nil
	}
	return ai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
}

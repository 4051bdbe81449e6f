package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	api "github.com/ridgecrew/trainhub/internal/api/http"
	"github.com/ridgecrew/trainhub/internal/auth"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/config"
	"github.com/ridgecrew/trainhub/internal/db"
	"github.com/ridgecrew/trainhub/internal/identity"
	"github.com/ridgecrew/trainhub/internal/insights"
	"github.com/ridgecrew/trainhub/internal/logging"
	"github.com/ridgecrew/trainhub/internal/metrics"
	"github.com/ridgecrew/trainhub/internal/quiz"
	"github.com/ridgecrew/trainhub/internal/scoring"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	cfg := config.FromEnv()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath, cfg); err != nil {
			return err
		}
	}
	log := logging.New("trainhub", cfg.LogLevel)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	identStore := identity.NewSQLStore(dbh)

	var quizStore quiz.Store = quiz.NewSQLStore(dbh)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		quizStore = quiz.NewCachedStore(quizStore, client, cfg.QuizCacheTTL)
		log.WithField("addr", cfg.RedisAddr).Info("quiz cache enabled")
	}

	guard := authz.NewGuard(
		authz.ProtectedID(cfg.PrimaryAdminID),
		authz.ProtectedEmail(cfg.PrimaryAdminEmail),
	)

	m := metrics.New("api")
	router := api.NewRouter(api.Deps{
		Log:                 log,
		Metrics:             m,
		Auth:                auth.NewAuthService(cfg.AuthSecret),
		Identity:            identStore,
		Authenticator:       identStore,
		Guard:               guard,
		Quizzes:             quizStore,
		Engine:              scoring.NewEngine(),
		Aggregator:          insights.NewAggregator(quizStore, quizStore, log),
		CORSOrigins:         cfg.CORSOrigins,
		AllowClaimFallback:  cfg.AllowClaimFallback,
		DefaultPassingScore: cfg.DefaultPassingScore,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).WithField("db", cfg.DBDriver).Info("starting trainhub")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down")
	case <-ctx.Done():
		log.Info("context canceled, shutting down")
	}

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	return server.Shutdown(shutdownCtx)
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ridgecrew/trainhub/internal/auth"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/identity"
	"github.com/ridgecrew/trainhub/internal/insights"
	"github.com/ridgecrew/trainhub/internal/logging"
	"github.com/ridgecrew/trainhub/internal/metrics"
	"github.com/ridgecrew/trainhub/internal/quiz"
	"github.com/ridgecrew/trainhub/internal/scoring"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Log                 *logrus.Logger
	Metrics             *metrics.Metrics
	Auth                *auth.AuthService
	Identity            identity.Store
	Authenticator       identity.Authenticator
	Guard               *authz.Guard
	Quizzes             quiz.Store
	Engine              *scoring.Engine
	Aggregator          *insights.Aggregator
	CORSOrigins         []string
	AllowClaimFallback  bool
	DefaultPassingScore int
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if d.Log != nil {
		r.Use(logging.RequestLogger(d.Log))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Authenticator))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	// Protected API (JWT -> principal in context -> permissions)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))
		pr.Use(auth.AttachPrincipal(d.Identity, d.AllowClaimFallback))

		pr.With(authz.Require("quiz:view")).
			Get("/quizzes", ListQuizzesHandler(d.Quizzes))
		pr.With(authz.Require("quiz:view")).
			Get("/quizzes/{quizID}", GetQuizHandler(d.Quizzes))
		pr.With(authz.Require("quiz:view")).
			Get("/videos/{videoID}/quizzes", QuizzesByVideoHandler(d.Quizzes))
		pr.With(authz.Require("quiz:submit")).
			Post("/quizzes/{quizID}/submit", SubmitQuizHandler(d.Quizzes, d.Engine, d.Metrics))
		pr.With(authz.Require("progress:write")).
			Post("/videos/{videoID}/progress", UpsertProgressHandler(d.Quizzes))
		pr.With(authz.RequireAny("comprehension:view-own", "comprehension:view-all")).
			Get("/users/{userID}/comprehension", ComprehensionHandler(d.Aggregator))

		// Admin console
		pr.With(authz.Require("quiz:create")).
			Post("/quizzes", CreateQuizHandler(d.Quizzes, d.DefaultPassingScore))
		pr.With(authz.Require("quiz:update")).
			Put("/quizzes/{quizID}", ReplaceQuizHandler(d.Quizzes, d.DefaultPassingScore))
		pr.With(authz.Require("quiz:delete")).
			Delete("/quizzes/{quizID}", DeleteQuizHandler(d.Quizzes))
		pr.With(authz.Require("users:list")).
			Get("/users", ListUsersHandler(d.Identity))
		// Role changes and deletions go through the guard alone so its
		// specific deny reasons reach the caller intact.
		pr.Post("/users/{userID}/role", SetRoleHandler(d.Guard, d.Identity, d.Metrics))
		pr.Delete("/users/{userID}", DeleteUserHandler(d.Guard, d.Identity))
		pr.With(authz.Require("comprehension:view-all")).
			Get("/comprehension", OverviewHandler(d.Aggregator))
	})

	return r
}

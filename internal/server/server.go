package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github-pr-finder/internal/api/handler"
	"github-pr-finder/internal/logger"
)

type Config struct {
	Host            string        `env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port            int           `env:"HTTP_PORT" env-default:"8787"`
	Timeout         time.Duration `env:"HTTP_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

func NewRouter(svc handler.Finder, log *zap.Logger, cfgLogger *logger.Config, srvTimeout time.Duration) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.MiddlewareLogger(log, cfgLogger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/commands", func(r chi.Router) {
		r.Post("/greet", handler.Greet(svc, log))
		r.Post("/sync_pull_requests", handler.SyncPullRequests(svc, srvTimeout, log))
		r.Post("/fetch_github_image", handler.FetchGithubImage(svc, srvTimeout, log))
		r.Post("/fetch_pr_diff", handler.FetchPrDiff(svc, srvTimeout, log))
		r.Post("/store_pull_requests", handler.StorePullRequests(svc, srvTimeout, log))
	})

	router.Get("/token", handler.GetToken(svc, srvTimeout, log))
	router.Put("/token", handler.SaveToken(svc, srvTimeout, log))
	router.Post("/token/validate", handler.ValidateToken(svc, srvTimeout, log))

	router.Get("/repositories", handler.ListRepositories(svc, srvTimeout, log))
	router.Post("/repositories", handler.AddRepository(svc, srvTimeout, log))
	router.Delete("/repositories/{id}", handler.DeleteRepository(svc, srvTimeout, log))

	router.Get("/members", handler.ListMembers(svc, srvTimeout, log))
	router.Post("/members", handler.AddMember(svc, srvTimeout, log))
	router.Delete("/members/{id}", handler.DeleteMember(svc, srvTimeout, log))

	router.Get("/pull_requests", handler.ListPullRequests(svc, srvTimeout, log))
	router.Get("/pull_requests/{repository_id}/{number}/diff", handler.GetPullRequestDiff(svc, srvTimeout, log))

	return router
}

package httpserver

import (
	"net/http"
	"strings"

	"hatim-app-go/internal/config"
	"hatim-app-go/internal/transport/httpserver/handler"
	authmw "hatim-app-go/internal/transport/httpserver/middleware"
	"hatim-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg config.Config,
	handlers *handler.Handlers,
	profiles authmw.ProfileSaver,
	observer authmw.RequestObserver,
	gatherer prometheus.Gatherer,
	log logger.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.NewRequestLogger(log, observer))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(authmw.NewCORS(strings.Split(cfg.HTTP.CORSOrigins, ",")))

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Group(func(r chi.Router) {
			r.Use(chimw.ThrottleBacklog(cfg.HTTP.ConcurrencyLimit, cfg.HTTP.ConcurrencyBacklog, cfg.HTTP.BacklogTimeout))

			r.Post("/callable/checkHatimCompletion", handlers.Callable.CheckHatimCompletion)

			auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Get("/auth/me", handlers.Common.AuthMe)

				r.Post("/callable/joinTeamRequest", handlers.Callable.JoinTeamRequest)
				r.Post("/callable/approveTeamRequest", handlers.Callable.ApproveTeamRequest)
				r.Post("/callable/rejectTeamRequest", handlers.Callable.RejectTeamRequest)

				r.Get("/teams", handlers.Teams.ListTeams)
				r.Post("/teams", handlers.Teams.CreateTeam)
				r.Get("/teams/{team_id}", handlers.Teams.GetTeam)

				r.Get("/teams/{team_id}/hatims", handlers.Hatims.ListTeamHatims)
				r.Post("/teams/{team_id}/hatims", handlers.Hatims.StartHatim)
				r.Get("/hatims/{hatim_id}", handlers.Hatims.GetHatim)
				r.Post("/hatims/{hatim_id}/complete", handlers.Hatims.ForceComplete)
				r.Put("/hatims/{hatim_id}/assignments/{assignment_id}/pages/{page}", handlers.Hatims.MarkPage)
				r.Delete("/hatims/{hatim_id}/assignments/{assignment_id}/pages/{page}", handlers.Hatims.UnmarkPage)
			})
		})
	})

	return r
}

// Package callable serves the request/response operations clients invoke by
// name: join requests, admin decisions and the on-demand completion check.
package callable

import (
	hatimdomain "hatim-app-go/internal/domain/hatim"
	teamdomain "hatim-app-go/internal/domain/team"
	"hatim-app-go/pkg/logger"
)

type Handlers struct {
	Teams  *teamdomain.Service
	Hatims *hatimdomain.Service
	log    logger.Logger
}

func New(teams *teamdomain.Service, hatims *hatimdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Teams:  teams,
		Hatims: hatims,
		log:    log,
	}
}

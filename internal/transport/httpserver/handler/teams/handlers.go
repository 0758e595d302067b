package teams

import (
	teamdomain "hatim-app-go/internal/domain/team"
	"hatim-app-go/pkg/logger"
)

type Handlers struct {
	Teams *teamdomain.Service
	log   logger.Logger
}

func New(teams *teamdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Teams: teams,
		log:   log,
	}
}

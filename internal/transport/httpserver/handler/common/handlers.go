package common

import (
	userdomain "hatim-app-go/internal/domain/user"
	"hatim-app-go/pkg/logger"
)

type Handlers struct {
	Profiles *userdomain.Service
	log      logger.Logger
}

func New(profiles *userdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Profiles: profiles,
		log:      log,
	}
}

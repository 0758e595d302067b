package hatims

import (
	hatimdomain "hatim-app-go/internal/domain/hatim"
	"hatim-app-go/pkg/logger"
)

type Handlers struct {
	Hatims *hatimdomain.Service
	log    logger.Logger
}

func New(hatims *hatimdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Hatims: hatims,
		log:    log,
	}
}

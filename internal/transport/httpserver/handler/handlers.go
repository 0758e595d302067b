package handler

import (
	"hatim-app-go/internal/transport/httpserver/handler/callable"
	"hatim-app-go/internal/transport/httpserver/handler/common"
	"hatim-app-go/internal/transport/httpserver/handler/hatims"
	"hatim-app-go/internal/transport/httpserver/handler/teams"
)

type Handlers struct {
	Common   *common.Handlers
	Teams    *teams.Handlers
	Hatims   *hatims.Handlers
	Callable *callable.Handlers
}

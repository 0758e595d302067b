package user

import "hatim-app-go/internal/domain/apperr"

var ErrProfileNotFound = apperr.New(apperr.KindNotFound, "profile_not_found", "profile not found")

package team

import "hatim-app-go/internal/domain/apperr"

var (
	ErrTeamNotFound       = apperr.New(apperr.KindNotFound, "team_not_found", "team not found")
	ErrAlreadyMember      = apperr.New(apperr.KindConflict, "already_member", "already a member of this team")
	ErrAlreadyPending     = apperr.New(apperr.KindConflict, "already_pending", "join request already sent")
	ErrNotAdmin           = apperr.New(apperr.KindAuthorization, "not_admin", "only the team admin can do this")
	ErrNotMember          = apperr.New(apperr.KindAuthorization, "not_member", "not a member of this team")
	ErrNotRequester       = apperr.New(apperr.KindAuthorization, "not_requester", "join requests can only be sent for yourself")
	ErrRequestNotFound    = apperr.New(apperr.KindNotFound, "join_request_not_found", "join request not found")
	ErrMembershipNotFound = apperr.New(apperr.KindNotFound, "membership_not_found", "membership not found")
)

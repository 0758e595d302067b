package hatim

import "hatim-app-go/internal/domain/apperr"

var (
	ErrHatimNotFound      = apperr.New(apperr.KindNotFound, "hatim_not_found", "hatim not found")
	ErrAssignmentNotFound = apperr.New(apperr.KindNotFound, "assignment_not_found", "page assignment not found")
	ErrHatimCompleted     = apperr.New(apperr.KindState, "hatim_completed", "hatim is already completed")
	ErrInvalidPage        = apperr.New(apperr.KindValidation, "invalid_page", "page is not part of this assignment")
	ErrNotAssignee        = apperr.New(apperr.KindAuthorization, "not_assignee", "assignment belongs to another member")
	ErrNoMembers          = apperr.New(apperr.KindValidation, "no_members", "team has no members to assign pages to")
	ErrDuplicateMember    = apperr.New(apperr.KindValidation, "duplicate_member", "member listed more than once")
	ErrInvalidTotalPages  = apperr.New(apperr.KindValidation, "invalid_total_pages", "total pages must be at least 1")
)

package handlers

import (
	"errors"

	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/services"
)

// apiError maps service errors onto HTTP statuses. Unknown errors become 500
// with their message surfaced.
func apiError(err error) error {
	var ae *apierr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return err
	case errors.Is(err, services.ErrInvalidArgument):
		return apierr.BadRequest("invalid_argument", err)
	case errors.Is(err, services.ErrUnauthorized):
		return apierr.Unauthorized("unauthorized", errors.New("Unauthorized"))
	case errors.Is(err, services.ErrForbidden):
		return apierr.Forbidden("forbidden", err)
	case errors.Is(err, services.ErrNotFound):
		return apierr.NotFound("course_not_found", errors.New("Course not found"))
	case errors.Is(err, services.ErrNotEnrolled):
		return apierr.NotFound("not_enrolled", err)
	case errors.Is(err, services.ErrDuplicateCourse):
		return apierr.Conflict("duplicate_course", err)
	case errors.Is(err, services.ErrMalformedModelResponse):
		return apierr.Internal("malformed_model_response", err)
	default:
		return apierr.Internal("internal_error", err)
	}
}

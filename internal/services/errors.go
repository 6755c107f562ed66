package services

import (
	"errors"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
)

var (
	ErrNotFound               = errors.New("course not found")
	ErrNotEnrolled            = errors.New("enrollment not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("course belongs to another user")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrMalformedModelResponse = errors.New("malformed model response")
	ErrCourseLimit            = errors.New("limit exceed")
	ErrDuplicateCourse        = repos.ErrDuplicateCourse
)

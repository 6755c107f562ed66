package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

// GET /api/courses
//
//	?courseId=0      public courses with content
//	?courseId=<cid>  one course
//	(none)           the caller's courses
func (h *CourseHandler) GetCourses(c *gin.Context) {
	ctx := c.Request.Context()
	courseID := strings.TrimSpace(c.Query("courseId"))

	switch {
	case courseID == "0":
		courses, err := h.courseService.ListPublic(ctx, nil)
		if err != nil {
			h.fail(c, "ListPublic", err)
			return
		}
		response.RespondOK(c, courses)
	case courseID != "" && courseID != "undefined" && courseID != "null":
		course, err := h.courseService.GetByCID(ctx, nil, courseID)
		if err != nil {
			h.fail(c, "GetByCID", err)
			return
		}
		response.RespondOK(c, course)
	default:
		courses, err := h.courseService.ListMine(ctx, nil, ctxutil.Email(ctx))
		if err != nil {
			h.fail(c, "ListMine", err)
			return
		}
		response.RespondOK(c, courses)
	}
}

func (h *CourseHandler) fail(c *gin.Context, op string, err error) {
	mapped := apiError(err)
	logFailure(h.log, c, op, mapped)
	response.RespondAPIError(c, mapped)
}

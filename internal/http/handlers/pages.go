package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/http/web"
	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

// PageHandler renders the server-side pages. Templates must be registered on
// the engine with SetHTMLTemplate.
type PageHandler struct {
	log        *logger.Logger
	courses    services.CourseService
	enrollment services.EnrollmentService
}

func NewPageHandler(log *logger.Logger, courses services.CourseService, enrollment services.EnrollmentService) *PageHandler {
	return &PageHandler{
		log:        log.With("handler", "PageHandler"),
		courses:    courses,
		enrollment: enrollment,
	}
}

// GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/workspace")
}

// GET /workspace
func (h *PageHandler) Workspace(c *gin.Context) {
	ctx := c.Request.Context()
	email := ctxutil.Email(ctx)

	page := web.WorkspacePage{SignedIn: email != "", Email: email}

	public, err := h.courses.ListPublic(ctx, nil)
	if err != nil {
		h.fail(c, "ListPublic", err)
		return
	}
	page.Explore = cards(public)

	if email != "" {
		mine, err := h.courses.ListMine(ctx, nil, email)
		if err != nil {
			h.fail(c, "ListMine", err)
			return
		}
		page.MyCourses = cards(mine)

		views, err := h.enrollment.ListMine(ctx, nil, email)
		if err != nil {
			h.fail(c, "ListEnrolled", err)
			return
		}
		page.Enrolled = make([]web.CourseCard, 0, len(views))
		for _, v := range views {
			card := web.NewCourseCard(v.Course)
			card.Enrolled = true
			card.Progress = v.Progress
			page.Enrolled = append(page.Enrolled, card)
		}
	}

	c.HTML(http.StatusOK, "workspace.html", page)
}

// GET /workspace/edit-course/:courseId
func (h *PageHandler) EditCourse(c *gin.Context) {
	ctx := c.Request.Context()
	email := ctxutil.Email(ctx)

	course, err := h.courses.GetByCID(ctx, nil, c.Param("courseId"))
	if err != nil {
		h.fail(c, "GetByCID", err)
		return
	}
	owner := email != "" && strings.EqualFold(course.UserEmail, email)
	c.HTML(http.StatusOK, "edit_course.html", web.NewEditCoursePage(course, owner, email != ""))
}

// GET /course/:courseId[?chapter=n]
func (h *PageHandler) Course(c *gin.Context) {
	ctx := c.Request.Context()
	email := ctxutil.Email(ctx)
	cid := c.Param("courseId")

	course, err := h.courses.GetByCID(ctx, nil, cid)
	if err != nil {
		h.fail(c, "GetByCID", err)
		return
	}

	var enrollment *domain.Enrollment
	if email != "" {
		view, err := h.enrollment.Get(ctx, nil, email, cid)
		if err != nil {
			h.fail(c, "GetEnrollment", err)
			return
		}
		enrollment = view.Enrollment
	}

	c.HTML(http.StatusOK, "course.html", web.NewCoursePage(course, enrollment, c.Query("chapter"), email != ""))
}

// NotFound renders the error page for unknown non-API paths.
func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("Not found"))
		return
	}
	c.HTML(http.StatusNotFound, "error.html", web.ErrorPage{Status: http.StatusNotFound, Message: "Page not found"})
}

func (h *PageHandler) fail(c *gin.Context, op string, err error) {
	mapped := apiError(err)
	logFailure(h.log, c, op, mapped)
	status := apierr.StatusOf(mapped)
	msg := "Something went wrong"
	if status < http.StatusInternalServerError {
		msg = mapped.Error()
	}
	c.HTML(status, "error.html", web.ErrorPage{Status: status, Message: msg})
}

func cards(courses []*domain.Course) []web.CourseCard {
	out := make([]web.CourseCard, 0, len(courses))
	for _, course := range courses {
		out = append(out, web.NewCourseCard(course))
	}
	return out
}

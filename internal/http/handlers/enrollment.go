package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type EnrollmentHandler struct {
	log        *logger.Logger
	enrollment services.EnrollmentService
}

func NewEnrollmentHandler(log *logger.Logger, enrollment services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:        log.With("handler", "EnrollmentHandler"),
		enrollment: enrollment,
	}
}

// GET /api/enroll-course[?courseId=]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	email := ctxutil.Email(ctx)
	if cid := strings.TrimSpace(c.Query("courseId")); cid != "" {
		view, err := h.enrollment.Get(ctx, nil, email, cid)
		if err != nil {
			h.fail(c, "Get", err)
			return
		}
		response.RespondOK(c, view)
		return
	}
	views, err := h.enrollment.ListMine(ctx, nil, email)
	if err != nil {
		h.fail(c, "ListMine", err)
		return
	}
	response.RespondOK(c, views)
}

type enrollBody struct {
	CourseID string `json:"courseId"`
}

// POST /api/enroll-course
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var body enrollBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "Enroll", badJSON(err))
		return
	}
	res, err := h.enrollment.Enroll(c.Request.Context(), nil, ctxutil.Email(c.Request.Context()), body.CourseID)
	if err != nil {
		h.fail(c, "Enroll", err)
		return
	}
	if res.AlreadyEnrolled {
		response.RespondOK(c, gin.H{"resp": "Already Enrolled"})
		return
	}
	response.RespondOK(c, res.Enrollment)
}

type completedBody struct {
	CourseID         string `json:"courseId"`
	CompletedChapter []int  `json:"completedChapter"`
}

// PUT /api/enroll-course
func (h *EnrollmentHandler) SetCompleted(c *gin.Context) {
	var body completedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "SetCompleted", badJSON(err))
		return
	}
	view, err := h.enrollment.SetCompleted(c.Request.Context(), nil, ctxutil.Email(c.Request.Context()), body.CourseID, body.CompletedChapter)
	if err != nil {
		h.fail(c, "SetCompleted", err)
		return
	}
	response.RespondOK(c, view)
}

type progressBody struct {
	CourseID     string `json:"courseId"`
	ChapterIndex *int   `json:"chapterIndex"`
	Completed    bool   `json:"completed"`
}

// POST /api/enroll-course/progress
func (h *EnrollmentHandler) ToggleChapter(c *gin.Context) {
	var body progressBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "ToggleChapter", badJSON(err))
		return
	}
	index := -1
	if body.ChapterIndex != nil {
		index = *body.ChapterIndex
	}
	view, err := h.enrollment.ToggleChapter(c.Request.Context(), nil, ctxutil.Email(c.Request.Context()), body.CourseID, index, body.Completed)
	if err != nil {
		h.fail(c, "ToggleChapter", err)
		return
	}
	response.RespondOK(c, view)
}

func (h *EnrollmentHandler) fail(c *gin.Context, op string, err error) {
	mapped := apiError(err)
	logFailure(h.log, c, op, mapped)
	response.RespondAPIError(c, mapped)
}

package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type GenerationHandler struct {
	log        *logger.Logger
	generation services.CourseGenerationService
}

func NewGenerationHandler(log *logger.Logger, generation services.CourseGenerationService) *GenerationHandler {
	return &GenerationHandler{
		log:        log.With("handler", "GenerationHandler"),
		generation: generation,
	}
}

type layoutBody struct {
	CourseID     string  `json:"courseId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	IncludeVideo bool    `json:"includeVideo"`
	NoOfChapters flexInt `json:"noOfChapters"`
	Category     string  `json:"category"`
	Level        string  `json:"level"`
}

// POST /api/generate-course-layout
func (h *GenerationHandler) GenerateLayout(c *gin.Context) {
	var body layoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "GenerateLayout", badJSON(err))
		return
	}
	cid, err := h.generation.GenerateLayout(c.Request.Context(), nil, ctxutil.Email(c.Request.Context()), services.LayoutRequest{
		CourseID:     body.CourseID,
		Name:         body.Name,
		Description:  body.Description,
		IncludeVideo: body.IncludeVideo,
		NoOfChapters: int(body.NoOfChapters),
		Category:     body.Category,
		Level:        body.Level,
	})
	if errors.Is(err, services.ErrCourseLimit) {
		response.RespondOK(c, gin.H{"resp": "limit exceed"})
		return
	}
	if err != nil {
		h.fail(c, "GenerateLayout", err)
		return
	}
	response.RespondOK(c, gin.H{"courseId": cid})
}

type contentBody struct {
	CourseJSON  json.RawMessage `json:"courseJson"`
	CourseTitle string          `json:"courseTitle"`
	CourseID    string          `json:"courseId"`
}

// POST /api/generate-course-content
func (h *GenerationHandler) GenerateContent(c *gin.Context) {
	var body contentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "GenerateContent", badJSON(err))
		return
	}
	res, err := h.generation.GenerateContent(c.Request.Context(), nil, ctxutil.Email(c.Request.Context()), services.ContentRequest{
		CourseJSON:  body.CourseJSON,
		CourseTitle: body.CourseTitle,
		CourseID:    body.CourseID,
	})
	if err != nil {
		h.fail(c, "GenerateContent", err)
		return
	}
	response.RespondOK(c, res)
}

func (h *GenerationHandler) fail(c *gin.Context, op string, err error) {
	mapped := apiError(err)
	logFailure(h.log, c, op, mapped)
	response.RespondAPIError(c, mapped)
}

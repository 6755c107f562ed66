package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
	"github.com/yungbote/coursegen-backend/internal/platform/youtube"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type FailurePolicy string

const (
	FailurePerChapter   FailurePolicy = "per_chapter"
	FailureAllOrNothing FailurePolicy = "all_or_nothing"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FailurePerChapter:
		return FailurePerChapter, nil
	case FailureAllOrNothing:
		return FailureAllOrNothing, nil
	default:
		return "", fmt.Errorf("unknown CONTENT_FAILURE_POLICY %q", s)
	}
}

type LayoutRequest struct {
	CourseID     string `json:"courseId" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	IncludeVideo bool   `json:"includeVideo"`
	NoOfChapters int    `json:"noOfChapters" validate:"min=1"`
	Category     string `json:"category"`
	Level        string `json:"level" validate:"required"`
}

type ContentRequest struct {
	CourseJSON  json.RawMessage `json:"courseJson"`
	CourseTitle string          `json:"courseTitle"`
	CourseID    string          `json:"courseId"`
}

type ContentResult struct {
	CourseName    string                  `json:"courseName"`
	CourseContent []domain.ChapterContent `json:"CourseContent"`
}

type GenerationOptions struct {
	MaxParallel     int
	FailurePolicy   FailurePolicy
	CourseLimit     int
	VideoMaxResults int
	// VideosAlways searches videos even for courses created without includeVideo.
	VideosAlways bool
}

type CourseGenerationService interface {
	GenerateLayout(ctx context.Context, tx *gorm.DB, email string, req LayoutRequest) (string, error)
	GenerateContent(ctx context.Context, tx *gorm.DB, email string, req ContentRequest) (*ContentResult, error)
}

type courseGenerationService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	llm        openai.Client
	videos     youtube.Client
	banners    BannerService
	events     realtime.Publisher
	validate   *validator.Validate
	prompts    promptSet
	opts       GenerationOptions
}

func NewCourseGenerationService(
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	llm openai.Client,
	videos youtube.Client,
	banners BannerService,
	events realtime.Publisher,
	opts GenerationOptions,
) (CourseGenerationService, error) {
	if llm == nil {
		return nil, errors.New("model client required")
	}
	prompts, err := loadPrompts(promptsYAML)
	if err != nil {
		return nil, err
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = FailurePerChapter
	}
	if opts.VideoMaxResults <= 0 {
		opts.VideoMaxResults = 4
	}
	if events == nil {
		events = realtime.NopPublisher()
	}
	return &courseGenerationService{
		log:        baseLog.With("service", "CourseGenerationService"),
		courseRepo: courseRepo,
		llm:        llm,
		videos:     videos,
		banners:    banners,
		events:     events,
		validate:   validator.New(),
		prompts:    prompts,
		opts:       opts,
	}, nil
}

func (s *courseGenerationService) GenerateLayout(ctx context.Context, tx *gorm.DB, email string, req LayoutRequest) (cid string, err error) {
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.Name = strings.TrimSpace(req.Name)
	req.Level = strings.TrimSpace(req.Level)
	if err := s.validateLayoutRequest(req); err != nil {
		return "", err
	}
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrUnauthorized
	}

	ctx, span := observability.StartSpan(ctx, "course.generate_layout",
		attribute.String("course.cid", req.CourseID),
		attribute.Int("course.chapters_requested", req.NoOfChapters),
	)
	defer func() { observability.EndSpan(span, err) }()

	if s.opts.CourseLimit > 0 {
		n, err := s.courseRepo.CountByUserEmail(ctx, tx, email)
		if err != nil {
			return "", fmt.Errorf("count user courses: %w", err)
		}
		if n >= int64(s.opts.CourseLimit) {
			return "", ErrCourseLimit
		}
	}

	input, err := json.Marshal(struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		IncludeVideo bool   `json:"includeVideo"`
		NoOfChapters int    `json:"noOfChapters"`
		Category     string `json:"category"`
		Level        string `json:"level"`
	}{req.Name, req.Description, req.IncludeVideo, req.NoOfChapters, req.Category, req.Level})
	if err != nil {
		return "", err
	}

	raw, err := s.llm.GenerateJSON(ctx, s.prompts.Layout.System, s.prompts.Layout.userPrompt(string(input)), "course_layout", layoutSchema)
	if err != nil {
		return "", fmt.Errorf("generate course layout: %w", err)
	}
	layout, err := s.parseLayout(raw)
	if err != nil {
		s.log.Warn("Unusable layout from model", "cid", req.CourseID, "error", err)
		return "", err
	}

	bannerURL := ""
	if s.banners != nil {
		bannerURL = s.banners.CreateBanner(ctx, req.CourseID, req.Name, layout.Course.BannerImagePrompt)
	}

	course := &domain.Course{
		CID:            req.CourseID,
		UserEmail:      email,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Level:          req.Level,
		NoOfChapters:   req.NoOfChapters,
		IncludeVideo:   req.IncludeVideo,
		CourseJSON:     domain.NewLayout(layout),
		CourseContent:  domain.NewContent(nil),
		BannerImageURL: bannerURL,
	}
	if err := s.courseRepo.Create(ctx, tx, course); err != nil {
		return "", fmt.Errorf("insert course: %w", err)
	}
	observability.IncCourseCreated()

	s.publish(ctx, realtime.SSEMessage{
		Channel: realtime.CourseChannel(course.CID),
		Event:   realtime.SSEEventCourseLayoutCreated,
		Data: map[string]any{
			"cid":      course.CID,
			"name":     course.Name,
			"chapters": len(layout.Chapters()),
		},
	})
	s.log.Info("Course layout created",
		"cid", course.CID,
		"user_email", email,
		"chapters", len(layout.Chapters()),
		"has_banner", bannerURL != "",
	)
	return course.CID, nil
}

func (s *courseGenerationService) validateLayoutRequest(req LayoutRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "CourseID" {
				return fmt.Errorf("%w: courseId is required", ErrInvalidArgument)
			}
		}
		return fmt.Errorf("%w: name, level and noOfChapters are required", ErrInvalidArgument)
	}
	return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
}

func (s *courseGenerationService) parseLayout(raw string) (domain.CourseLayout, error) {
	obj, err := openai.ExtractJSONObject(raw)
	if err != nil {
		return domain.CourseLayout{}, fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}
	layout, err := domain.DecodeLayout(obj)
	if err != nil {
		return domain.CourseLayout{}, fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}
	if err := s.validate.Struct(layout); err != nil {
		return domain.CourseLayout{}, fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}
	return layout, nil
}

func (s *courseGenerationService) GenerateContent(ctx context.Context, tx *gorm.DB, email string, req ContentRequest) (res *ContentResult, err error) {
	cid := strings.TrimSpace(req.CourseID)
	if cid == "" {
		return nil, fmt.Errorf("%w: courseId is required", ErrInvalidArgument)
	}
	email = normalizeEmail(email)

	ctx, span := observability.StartSpan(ctx, "course.generate_content",
		attribute.String("course.cid", cid),
		attribute.String("content.failure_policy", string(s.opts.FailurePolicy)),
	)
	defer func() { observability.EndSpan(span, err) }()

	course, err := s.courseRepo.GetByCID(ctx, tx, cid)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	if email != "" && normalizeEmail(course.UserEmail) != email {
		return nil, ErrForbidden
	}

	chapters, err := chaptersFor(course, req.CourseJSON)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("course.chapters", len(chapters)))

	title := strings.TrimSpace(req.CourseTitle)
	if title == "" {
		title = course.Name
	}

	content, err := s.generateChapters(ctx, course, chapters)
	if err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.UpdateContent(ctx, tx, cid, content); err != nil {
		return nil, fmt.Errorf("save course content: %w", err)
	}

	failed := 0
	for _, ch := range content {
		if ch.Failed() {
			failed++
		}
	}
	s.publish(ctx, realtime.SSEMessage{
		Channel: realtime.CourseChannel(cid),
		Event:   realtime.SSEEventCourseContentGenerated,
		Data:    map[string]any{"cid": cid, "chapters": len(content), "failed": failed},
	})
	s.log.Info("Course content generated", "cid", cid, "chapters", len(content), "failed", failed)

	return &ContentResult{CourseName: title, CourseContent: content}, nil
}

// chaptersFor prefers the client-supplied layout and falls back to the stored one.
func chaptersFor(course *domain.Course, raw json.RawMessage) ([]domain.LayoutChapter, error) {
	if len(strings.TrimSpace(string(raw))) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return course.Layout().Chapters(), nil
	}
	layout, err := domain.DecodeLayout(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: courseJson: %v", ErrInvalidArgument, err)
	}
	return layout.Chapters(), nil
}

func (s *courseGenerationService) generateChapters(ctx context.Context, course *domain.Course, chapters []domain.LayoutChapter) ([]domain.ChapterContent, error) {
	out := make([]domain.ChapterContent, len(chapters))
	if len(chapters) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxParallel)

	var mu sync.Mutex
	var chapterErrs []error

	for i, chapter := range chapters {
		g.Go(func() error {
			lesson, err := s.generateChapter(gctx, chapter)
			if err != nil {
				observability.IncChapterGenerated("failed")
				s.log.Warn("Chapter generation failed", "cid", course.CID, "index", i, "chapter", chapter.ChapterName, "error", err)
				if s.opts.FailurePolicy == FailureAllOrNothing {
					return fmt.Errorf("chapter %d (%s): %w", i, chapter.ChapterName, err)
				}
				mu.Lock()
				chapterErrs = append(chapterErrs, err)
				mu.Unlock()
				out[i] = domain.ChapterContent{
					YoutubeVideo: []domain.VideoRef{},
					CourseData:   domain.ChapterLesson{ChapterName: chapter.ChapterName, Topics: []domain.TopicContent{}},
					Status:       domain.ChapterStatusFailed,
					Error:        err.Error(),
				}
				s.publishChapter(gctx, course.CID, i, out[i])
				return nil
			}

			videos := s.searchVideos(gctx, course, chapter.ChapterName)
			observability.IncChapterGenerated("ok")
			out[i] = domain.ChapterContent{
				YoutubeVideo: videos,
				CourseData:   lesson,
				Status:       domain.ChapterStatusOK,
			}
			s.publishChapter(gctx, course.CID, i, out[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(chapterErrs) == len(chapters) {
		return nil, fmt.Errorf("all %d chapters failed: %w", len(chapters), errors.Join(chapterErrs...))
	}
	return out, nil
}

func (s *courseGenerationService) generateChapter(ctx context.Context, chapter domain.LayoutChapter) (domain.ChapterLesson, error) {
	input, err := json.Marshal(chapter)
	if err != nil {
		return domain.ChapterLesson{}, err
	}
	raw, err := s.llm.GenerateJSON(ctx, s.prompts.Chapter.System, s.prompts.Chapter.userPrompt(string(input)), "chapter_content", chapterSchema)
	if err != nil {
		return domain.ChapterLesson{}, err
	}
	var lesson domain.ChapterLesson
	if err := openai.DecodeInto(raw, &lesson); err != nil {
		return domain.ChapterLesson{}, fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}
	if strings.TrimSpace(lesson.ChapterName) == "" {
		lesson.ChapterName = chapter.ChapterName
	}
	if err := s.validate.Struct(lesson); err != nil {
		return domain.ChapterLesson{}, fmt.Errorf("%w: %v", ErrMalformedModelResponse, err)
	}
	if lesson.Topics == nil {
		lesson.Topics = []domain.TopicContent{}
	}
	return lesson, nil
}

// searchVideos never fails the chapter; errors yield an empty list.
func (s *courseGenerationService) searchVideos(ctx context.Context, course *domain.Course, query string) []domain.VideoRef {
	if s.videos == nil || (!course.IncludeVideo && !s.opts.VideosAlways) || strings.TrimSpace(query) == "" {
		return []domain.VideoRef{}
	}
	start := time.Now()
	videos, err := s.videos.Search(ctx, query, s.opts.VideoMaxResults)
	if err != nil {
		s.log.Warn("Video search failed", "cid", course.CID, "query", query, "error", err, "elapsed", time.Since(start).String())
		return []domain.VideoRef{}
	}
	if videos == nil {
		return []domain.VideoRef{}
	}
	return videos
}

func (s *courseGenerationService) publishChapter(ctx context.Context, cid string, index int, ch domain.ChapterContent) {
	s.publish(ctx, realtime.SSEMessage{
		Channel: realtime.CourseChannel(cid),
		Event:   realtime.SSEEventCourseChapterGenerated,
		Data: map[string]any{
			"cid":         cid,
			"index":       index,
			"chapterName": ch.CourseData.ChapterName,
			"status":      ch.Status,
		},
	})
}

func (s *courseGenerationService) publish(ctx context.Context, msg realtime.SSEMessage) {
	if err := s.events.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.log.Warn("Realtime publish failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_llm_requests_total",
			Help: "Model inference calls, partitioned by model and outcome.",
		},
		[]string{"model", "status"},
	)
	llmLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursegen_llm_request_duration_seconds",
			Help:    "Model inference latency including retries.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		},
		[]string{"model"},
	)
	llmTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_llm_tokens_total",
			Help: "Tokens consumed, partitioned by model and kind (input|output).",
		},
		[]string{"model", "kind"},
	)
	videoSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_video_search_total",
			Help: "Video search calls by outcome.",
		},
		[]string{"status"},
	)
	imageGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_image_generation_total",
			Help: "Banner image generation attempts by provider and outcome.",
		},
		[]string{"provider", "status"},
	)
	externalLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursegen_external_request_duration_seconds",
			Help:    "Latency of video search and image generation calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	chaptersGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_chapters_generated_total",
			Help: "Chapter content generation results.",
		},
		[]string{"status"},
	)
	coursesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coursegen_courses_created_total",
			Help: "Course layouts persisted.",
		},
	)
)

func ObserveLLMRequest(model, status string, dur time.Duration, inputTokens, outputTokens int) {
	llmRequests.WithLabelValues(model, status).Inc()
	llmLatency.WithLabelValues(model).Observe(dur.Seconds())
	if inputTokens > 0 {
		llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

func ObserveVideoSearch(status string, dur time.Duration) {
	videoSearches.WithLabelValues(status).Inc()
	externalLatency.WithLabelValues("video_search").Observe(dur.Seconds())
}

func ObserveImageGeneration(provider, status string, dur time.Duration) {
	imageGenerations.WithLabelValues(provider, status).Inc()
	externalLatency.WithLabelValues("image_generation").Observe(dur.Seconds())
}

func IncChapterGenerated(status string) {
	chaptersGenerated.WithLabelValues(status).Inc()
}

func IncCourseCreated() {
	coursesCreated.Inc()
}

// StatusLabel maps an error to the "ok" / "error" label used by the counters above.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

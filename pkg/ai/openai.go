package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	adviceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lumilearn",
		Subsystem: "ai",
		Name:      "advice_duration_seconds",
		Help:      "Duration of AI advice requests",
	}, []string{"model"})

	adviceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumilearn",
		Subsystem: "ai",
		Name:      "advice_failures_total",
		Help:      "Number of AI advice failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI adviser.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAdviser implements Adviser against the OpenAI chat completion API.
type OpenAIAdviser struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAdviser builds a new adviser using the provided configuration.
func NewOpenAIAdviser(cfg OpenAIConfig) (*OpenAIAdviser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 160
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIAdviser{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/lumilearn/lumilearn-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

// Advise sends the aggregates to OpenAI and returns the generated study note.
func (a *OpenAIAdviser) Advise(parent context.Context, study StudyContext) (string, error) {
	ctx, span := a.tracer.Start(parent, "openai.advise", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: adviserSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildStudyPrompt(study),
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	adviceDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		adviceFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai advise: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		adviceFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func adviserSystemPrompt() string {
	return "You are a study coach for an online video course platform. Given a learner's watching and quiz aggregates, reply wit" +
		"h one short, encouraging, concrete study note (two sentences at most). Plain text only."
}

func buildStudyPrompt(study StudyContext) string {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "Videos completed: %d\n", study.VideosCompleted)
	fmt.Fprintf(&builder, "Videos in progress: %d\n", study.VideosInProgress)
	fmt.Fprintf(&builder, "Minutes watched: %.0f, minutes remaining: %.0f\n", study.MinutesWatched, study.MinutesRemaining)
	for _, course := range study.Courses {
		title := course.Title
		if title == "" {
			title = "Untitled course"
		}
		fmt.Fprintf(&builder, "Course %q: first-attempt avg %d%%, latest avg %d%%, improvement %+d\n",
			title, course.FirstAvgScore, course.LastAvgScore, course.Improvement)
	}
	builder.WriteString("Write the study note.")
	return builder.String()
}

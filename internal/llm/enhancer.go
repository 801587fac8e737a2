package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Enhancer expands a raw user prompt into a fuller natural-language
// description. Enhancement is advisory only: the response is returned verbatim
// after trimming.
type Enhancer interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

// EnhancerOptions configures the OpenRouter-backed enhancer.
type EnhancerOptions struct {
	Client      *Client
	Catalog     ModelCatalog
	Temperature float64
}

type openRouterEnhancer struct {
	client      *Client
	logger      *logrus.Logger
	catalog     ModelCatalog
	temperature float64
}

// NewEnhancer constructs an Enhancer implementation backed by OpenRouter.
func NewEnhancer(opts EnhancerOptions) (Enhancer, error) {
	if opts.Client == nil {
		return nil, eris.New("llm client is required")
	}

	if strings.TrimSpace(opts.Catalog.Default) == "" {
		return nil, eris.New("default model identifier is required")
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultPipelineTemperature
	}

	return &openRouterEnhancer{
		client:      opts.Client,
		logger:      opts.Client.logger,
		catalog:     opts.Catalog,
		temperature: temperature,
	}, nil
}

func (e *openRouterEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	trimmedPrompt := strings.TrimSpace(prompt)
	if trimmedPrompt == "" {
		return "", eris.New("prompt is required")
	}

	// Enhancement always runs on the free tier.
	model := e.catalog.Resolve(TierFree)
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(enhanceSystemPromptTemplate, trimmedPrompt)),
		},
		Temperature: openai.Float(e.temperature),
	}

	enhanced, err := completionText(ctx, e.client, params)
	if err != nil {
		e.logError(logrus.Fields{"model": model}, err, "requesting prompt enhancement")
		return "", err
	}

	return enhanced, nil
}

func (e *openRouterEnhancer) logError(fields logrus.Fields, err error, message string) {
	if e.logger == nil || err == nil {
		return
	}

	entry := e.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

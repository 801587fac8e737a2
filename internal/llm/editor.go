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

// Editor rewrites existing page artifacts according to an edit instruction.
type Editor interface {
	Edit(ctx context.Context, editPrompt string, currentHTML string, currentJavaScript string, tier string) (*Artifact, error)
}

// EditorOptions configures the OpenRouter-backed editor.
type EditorOptions struct {
	Client      *Client
	Catalog     ModelCatalog
	Temperature float64
}

type openRouterEditor struct {
	client      *Client
	logger      *logrus.Logger
	catalog     ModelCatalog
	temperature float64
}

// NewEditor constructs an Editor implementation backed by OpenRouter.
func NewEditor(opts EditorOptions) (Editor, error) {
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

	return &openRouterEditor{
		client:      opts.Client,
		logger:      opts.Client.logger,
		catalog:     opts.Catalog,
		temperature: temperature,
	}, nil
}

func (e *openRouterEditor) Edit(ctx context.Context, editPrompt string, currentHTML string, currentJavaScript string, tier string) (*Artifact, error) {
	trimmedPrompt := strings.TrimSpace(editPrompt)
	if trimmedPrompt == "" {
		return nil, eris.New("edit prompt is required")
	}

	trimmedHTML := strings.TrimSpace(currentHTML)
	if trimmedHTML == "" {
		return nil, eris.New("current html is required")
	}

	trimmedJavaScript := strings.TrimSpace(currentJavaScript)
	if trimmedJavaScript == "" {
		return nil, eris.New("current javascript is required")
	}

	model := e.catalog.Resolve(tier)
	userMessage := fmt.Sprintf("Current HTML:\n%s\n\nCurrent JavaScript:\n%s\n\nEdit prompt: %s", trimmedHTML, trimmedJavaScript, trimmedPrompt)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(editSystemPrompt),
			openai.UserMessage(userMessage),
		},
		Temperature: openai.Float(e.temperature),
	}

	content, err := completionText(ctx, e.client, params)
	if err != nil {
		e.logError(logrus.Fields{"model": model}, err, "requesting content edit")
		return nil, err
	}

	artifact, err := buildArtifact(content)
	if err != nil {
		e.logError(logrus.Fields{"model": model}, err, "extracting edited content")
		return nil, err
	}

	return artifact, nil
}

func (e *openRouterEditor) logError(fields logrus.Fields, err error, message string) {
	if e.logger == nil || err == nil {
		return
	}

	entry := e.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

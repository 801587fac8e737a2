package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Artifact is the separated result of a generation or edit request.
type Artifact struct {
	HTML       string
	JavaScript string
}

// Generator produces Site Sensei page artifacts from user prompts.
type Generator interface {
	// Generate streams a full document from the model, stopping at the end
	// sentinel, and returns the script-separated artifact.
	Generate(ctx context.Context, prompt string, tier string) (*Artifact, error)
	// GenerateHTML produces a script-free HTML document in a single shot.
	GenerateHTML(ctx context.Context, prompt string, tier string) (string, error)
	// GenerateJavaScript produces standalone JavaScript for existing markup.
	GenerateJavaScript(ctx context.Context, prompt string, htmlContent string, tier string) (string, error)
}

// GeneratorOptions configures the OpenRouter-backed generator.
type GeneratorOptions struct {
	Client      *Client
	Catalog     ModelCatalog
	Temperature float64
}

type openRouterGenerator struct {
	client      *Client
	logger      *logrus.Logger
	catalog     ModelCatalog
	temperature float64
}

const defaultPipelineTemperature = 0.3

// NewGenerator constructs a Generator implementation backed by OpenRouter.
func NewGenerator(opts GeneratorOptions) (Generator, error) {
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

	return &openRouterGenerator{
		client:      opts.Client,
		logger:      opts.Client.logger,
		catalog:     opts.Catalog,
		temperature: temperature,
	}, nil
}

func (g *openRouterGenerator) Generate(ctx context.Context, prompt string, tier string) (*Artifact, error) {
	trimmedPrompt := strings.TrimSpace(prompt)
	if trimmedPrompt == "" {
		return nil, eris.New("prompt is required")
	}

	model := g.catalog.Resolve(tier)
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generateSystemPrompt),
			openai.UserMessage(trimmedPrompt),
		},
		Temperature: openai.Float(g.temperature),
	}

	raw, err := g.consumeStream(ctx, params)
	if err != nil {
		g.logError(logrus.Fields{"model": model}, err, "streaming chat completion")
		return nil, err
	}

	artifact, err := buildArtifact(raw)
	if err != nil {
		g.logError(logrus.Fields{"model": model}, err, "extracting generated content")
		return nil, err
	}

	return artifact, nil
}

// consumeStream buffers streamed deltas until the end sentinel appears, then
// cancels the upstream request and returns the buffer up to and including the
// sentinel. The loop fires at most once; cancellation after a match is
// expected and never surfaced as an error, while any other termination before
// a sentinel is found is.
func (g *openRouterGenerator) consumeStream(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := g.client.chat.NewStreaming(streamCtx, params)
	defer func() { _ = stream.Close() }()

	var buffer strings.Builder

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}

		buffer.WriteString(chunk.Choices[0].Delta.Content)

		if end, found := endSentinelIndex(buffer.String()); found {
			cancel()
			return buffer.String()[:end], nil
		}
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return "", eris.Wrap(err, "streaming chat completion")
	}

	return "", eris.Wrap(ErrExtraction, "stream ended before the end sentinel")
}

func (g *openRouterGenerator) GenerateHTML(ctx context.Context, prompt string, tier string) (string, error) {
	trimmedPrompt := strings.TrimSpace(prompt)
	if trimmedPrompt == "" {
		return "", eris.New("prompt is required")
	}

	model := g.catalog.Resolve(tier)
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generateHTMLSystemPrompt),
			openai.UserMessage(trimmedPrompt),
		},
		Temperature: openai.Float(g.temperature),
	}

	content, err := completionText(ctx, g.client, params)
	if err != nil {
		g.logError(logrus.Fields{"model": model}, err, "requesting html generation")
		return "", err
	}

	htmlContent, err := ExtractHTML(content)
	if err != nil {
		g.logError(logrus.Fields{"model": model}, err, "extracting generated html")
		return "", err
	}

	return htmlContent, nil
}

func (g *openRouterGenerator) GenerateJavaScript(ctx context.Context, prompt string, htmlContent string, tier string) (string, error) {
	trimmedPrompt := strings.TrimSpace(prompt)
	if trimmedPrompt == "" {
		return "", eris.New("prompt is required")
	}

	trimmedHTML := strings.TrimSpace(htmlContent)
	if trimmedHTML == "" {
		return "", eris.New("html is required")
	}

	model := g.catalog.Resolve(tier)
	userMessage := fmt.Sprintf("HTML: %s\n\nPrompt: %s\n\nGenerate JavaScript code to enhance this HTML based on the prompt, ensuring compatibility with the existing HTML structure.", trimmedHTML, trimmedPrompt)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generateJavaScriptSystemPrompt),
			openai.UserMessage(userMessage),
		},
		Temperature: openai.Float(g.temperature),
	}

	content, err := completionText(ctx, g.client, params)
	if err != nil {
		g.logError(logrus.Fields{"model": model}, err, "requesting javascript generation")
		return "", err
	}

	javascript, err := ExtractJavaScript(content)
	if err != nil {
		g.logError(logrus.Fields{"model": model}, err, "extracting generated javascript")
		return "", err
	}

	return javascript, nil
}

// buildArtifact runs extraction and script separation over a raw model
// response. It yields either a complete artifact or an error, never a partial
// result.
func buildArtifact(raw string) (*Artifact, error) {
	htmlContent, err := ExtractHTML(raw)
	if err != nil {
		return nil, err
	}

	markup, javascript := SeparateScripts(htmlContent)
	if markup == "" {
		return nil, eris.Wrap(ErrExtraction, "extracted html is empty after script separation")
	}

	return &Artifact{HTML: markup, JavaScript: javascript}, nil
}

func (g *openRouterGenerator) logError(fields logrus.Fields, err error, message string) {
	if g.logger == nil || err == nil {
		return
	}

	entry := g.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

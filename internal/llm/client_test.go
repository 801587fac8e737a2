package llm

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/ssestream"
	"github.com/openai/openai-go/v2/shared/constant"
	"github.com/sirupsen/logrus"
)

var fakeBaseURL = "https://fake-llm-provider.ai/api/v1"

// fakeChatService implements chatCompletionClient for tests.
type fakeChatService struct {
	response      *openai.ChatCompletion
	err           error
	calls         int
	streamCalls   int
	lastParams    openai.ChatCompletionNewParams
	streamDecoder *fakeStreamDecoder
	streamCtx     context.Context
}

func (f *fakeChatService) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.calls++
	f.lastParams = body
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeChatService) NewStreaming(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) *ssestream.Stream[openai.ChatCompletionChunk] {
	f.streamCalls++
	f.lastParams = body
	f.streamCtx = ctx
	return ssestream.NewStream[openai.ChatCompletionChunk](f.streamDecoder, f.err)
}

// fakeStreamDecoder feeds canned SSE events into an ssestream.Stream.
type fakeStreamDecoder struct {
	events   []ssestream.Event
	consumed int
	err      error
	closed   bool
}

func (d *fakeStreamDecoder) Next() bool {
	if d.consumed >= len(d.events) {
		return false
	}
	d.consumed++
	return true
}

func (d *fakeStreamDecoder) Event() ssestream.Event {
	return d.events[d.consumed-1]
}

func (d *fakeStreamDecoder) Close() error {
	d.closed = true
	return nil
}

func (d *fakeStreamDecoder) Err() error {
	return d.err
}

func chunkEvent(t *testing.T, content string) ssestream.Event {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":      "chunk",
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index": 0,
				"delta": map[string]any{"content": content},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshalling chunk: %v", err)
	}

	return ssestream.Event{Data: payload}
}

func completionResponse(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		ID:      "gen-1",
		Created: time.Now().Unix(),
		Model:   "test-model",
		Object:  constant.ValueOf[constant.ChatCompletion](),
		Choices: []openai.ChatCompletionChoice{
			{
				FinishReason: "stop",
				Index:        0,
				Message: openai.ChatCompletionMessage{
					Content: content,
					Role:    constant.ValueOf[constant.Assistant](),
				},
			},
		},
	}
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testCatalog() ModelCatalog {
	return ModelCatalog{
		Free:     "provider/free-model",
		Pro:      "provider/pro-model",
		Advanced: "provider/advanced-model",
		Default:  "provider/default-model",
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientOptions{}); err == nil {
		t.Fatalf("expected error when api key is missing")
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	t.Parallel()

	client, err := NewClient(ClientOptions{APIKey: "key"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if client.BaseURL() != openRouterBaseURL {
		t.Fatalf("expected default base url %q, got %q", openRouterBaseURL, client.BaseURL())
	}
}

package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/rotisserie/eris"
)

// completionText performs a non-streaming chat completion and returns the
// trimmed assistant message, surfacing refusals and content-filter blocks as
// errors.
func completionText(ctx context.Context, client *Client, params openai.ChatCompletionNewParams) (string, error) {
	completion, err := client.chat.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "requesting chat completion")
	}

	if len(completion.Choices) == 0 {
		return "", eris.New("llm completion returned no choices")
	}

	choice := completion.Choices[0]
	if reason := strings.TrimSpace(choice.FinishReason); strings.EqualFold(reason, "content_filter") {
		return "", eris.New("llm blocked the request via content filter")
	}

	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		return "", eris.Errorf("llm refused to generate content: %s", refusal)
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", eris.New("llm response content is empty")
	}

	return content, nil
}

package http

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
)

type enhanceInput struct {
	Body struct {
		Prompt string `json:"prompt,omitempty"`
	}
}

type enhanceOutput struct {
	Body struct {
		EnhancedPrompt string `json:"enhancedPrompt"`
	}
}

type generateInput struct {
	Body struct {
		Prompt string `json:"prompt,omitempty"`
		Model  string `json:"model,omitempty"`
	}
}

type artifactOutput struct {
	Body struct {
		HTML       string `json:"html,omitempty"`
		JavaScript string `json:"javascript"`
	}
}

type generateHTMLOutput struct {
	Body struct {
		HTML string `json:"html,omitempty"`
	}
}

type generateJavaScriptInput struct {
	Body struct {
		Prompt string `json:"prompt,omitempty"`
		HTML   string `json:"html,omitempty"`
		Model  string `json:"model,omitempty"`
	}
}

type generateJavaScriptOutput struct {
	Body struct {
		JavaScript string `json:"javascript"`
	}
}

type editInput struct {
	Body struct {
		EditPrompt        string `json:"editPrompt,omitempty"`
		CurrentHTML       string `json:"currentHtml,omitempty"`
		CurrentJavaScript string `json:"currentJavascript,omitempty"`
		Model             string `json:"model,omitempty"`
	}
}

func (s *Server) registerGenerationRoutes() {
	huma.Post(s.api, "/api/enhance-prompt", s.enhanceHandler, func(op *huma.Operation) {
		op.Summary = "Enhance a page prompt"
	})
	huma.Post(s.api, "/api/generate", s.generateHandler, func(op *huma.Operation) {
		op.Summary = "Generate a full page artifact"
	})
	huma.Post(s.api, "/api/generate/html", s.generateHTMLHandler, func(op *huma.Operation) {
		op.Summary = "Generate page markup only"
	})
	huma.Post(s.api, "/api/generate/javascript", s.generateJavaScriptHandler, func(op *huma.Operation) {
		op.Summary = "Generate page behaviour for existing markup"
	})
	huma.Post(s.api, "/api/edit-content", s.editHandler, func(op *huma.Operation) {
		op.Summary = "Edit an existing page artifact"
	})
}

func (s *Server) enhanceHandler(ctx context.Context, input *enhanceInput) (*enhanceOutput, error) {
	prompt := strings.TrimSpace(input.Body.Prompt)
	if prompt == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}

	enhanced, err := s.enhancer.Enhance(ctx, prompt)
	if err != nil {
		s.recordError(ctx, err, "enhancing prompt", nil)
		return nil, huma.Error500InternalServerError("Error enhancing prompt")
	}

	resp := &enhanceOutput{}
	resp.Body.EnhancedPrompt = enhanced
	return resp, nil
}

func (s *Server) generateHandler(ctx context.Context, input *generateInput) (*artifactOutput, error) {
	prompt := strings.TrimSpace(input.Body.Prompt)
	if prompt == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}

	artifact, err := s.generator.Generate(ctx, prompt, input.Body.Model)
	if err != nil {
		s.recordError(ctx, err, "generating page", logrus.Fields{"model": input.Body.Model})
		return nil, generationError(err)
	}

	resp := &artifactOutput{}
	resp.Body.HTML = artifact.HTML
	resp.Body.JavaScript = artifact.JavaScript
	return resp, nil
}

func (s *Server) generateHTMLHandler(ctx context.Context, input *generateInput) (*generateHTMLOutput, error) {
	prompt := strings.TrimSpace(input.Body.Prompt)
	if prompt == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}

	html, err := s.generator.GenerateHTML(ctx, prompt, input.Body.Model)
	if err != nil {
		s.recordError(ctx, err, "generating page markup", logrus.Fields{"model": input.Body.Model})
		return nil, generationError(err)
	}

	resp := &generateHTMLOutput{}
	resp.Body.HTML = html
	return resp, nil
}

func (s *Server) generateJavaScriptHandler(ctx context.Context, input *generateJavaScriptInput) (*generateJavaScriptOutput, error) {
	prompt := strings.TrimSpace(input.Body.Prompt)
	if prompt == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}
	if strings.TrimSpace(input.Body.HTML) == "" {
		return nil, huma.Error400BadRequest("HTML is required")
	}

	script, err := s.generator.GenerateJavaScript(ctx, prompt, input.Body.HTML, input.Body.Model)
	if err != nil {
		s.recordError(ctx, err, "generating page behaviour", logrus.Fields{"model": input.Body.Model})
		return nil, generationError(err)
	}

	resp := &generateJavaScriptOutput{}
	resp.Body.JavaScript = script
	return resp, nil
}

func (s *Server) editHandler(ctx context.Context, input *editInput) (*artifactOutput, error) {
	if strings.TrimSpace(input.Body.EditPrompt) == "" {
		return nil, huma.Error400BadRequest("Edit prompt is required")
	}
	if strings.TrimSpace(input.Body.CurrentHTML) == "" {
		return nil, huma.Error400BadRequest("Current HTML is required")
	}
	if strings.TrimSpace(input.Body.CurrentJavaScript) == "" {
		return nil, huma.Error400BadRequest("Current JavaScript is required")
	}

	artifact, err := s.editor.Edit(ctx, input.Body.EditPrompt, input.Body.CurrentHTML, input.Body.CurrentJavaScript, input.Body.Model)
	if err != nil {
		s.recordError(ctx, err, "editing page", logrus.Fields{"model": input.Body.Model})
		return nil, generationError(err)
	}

	resp := &artifactOutput{}
	resp.Body.HTML = artifact.HTML
	resp.Body.JavaScript = artifact.JavaScript
	return resp, nil
}

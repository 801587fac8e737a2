package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/db"
	"sitesensei/app/internal/llm"
)

const (
	extractionFailureMessage = "Failed to extract valid HTML from the generated content"
	generationFailureMessage = "Error generating content"
)

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		LLM      string `json:"llm"`
	}
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.LLM = "ready"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if s.generator == nil {
		resp.Body.Status = "degraded"
		resp.Body.LLM = "unconfigured"
		if resp.Status == 0 {
			resp.Status = stdhttp.StatusServiceUnavailable
		}
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

// generationError maps pipeline failures onto the two public 500 messages.
func generationError(err error) huma.StatusError {
	if eris.Is(err, llm.ErrExtraction) {
		return huma.Error500InternalServerError(extractionFailureMessage)
	}
	return huma.Error500InternalServerError(generationFailureMessage)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}

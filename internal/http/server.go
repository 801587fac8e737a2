package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sitesensei/app/internal/auth"
	"sitesensei/app/internal/llm"
	"sitesensei/app/internal/page"
	"sitesensei/app/internal/user"
)

// Options configures the HTTP server wiring.
type Options struct {
	Enhancer    llm.Enhancer
	Generator   llm.Generator
	Editor      llm.Editor
	Pages       page.Service
	Users       user.Service
	Verifier    *auth.Verifier
	Database    *gorm.DB
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the JSON API via Huma on top of the standard library mux.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	enhancer    llm.Enhancer
	generator   llm.Generator
	editor      llm.Editor
	pages       page.Service
	users       user.Service
	verifier    *auth.Verifier
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Enhancer == nil {
		return nil, eris.New("enhancer is required")
	}
	if opts.Generator == nil {
		return nil, eris.New("generator is required")
	}
	if opts.Editor == nil {
		return nil, eris.New("editor is required")
	}
	if opts.Pages == nil {
		return nil, eris.New("page service is required")
	}
	if opts.Users == nil {
		return nil, eris.New("user service is required")
	}
	if opts.Verifier == nil {
		return nil, eris.New("token verifier is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	useFlatErrors()

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Site Sensei", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:       api,
		mux:       mux,
		enhancer:  opts.Enhancer,
		generator: opts.Generator,
		editor:    opts.Editor,
		pages:     opts.Pages,
		users:     opts.Users,
		verifier:  opts.Verifier,
		logger:    opts.Logger,
		sentry:    opts.SentryHub,
		db:        opts.Database,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.authMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.registerGenerationRoutes()
	s.registerPageRoutes()
	s.registerUserRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}

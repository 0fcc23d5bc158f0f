package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/jekabolt/newsletter-manager/internal/apisrv/frontend"
	"github.com/jekabolt/newsletter-manager/internal/dependency"
)

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// BaseURL is the public address embedded into confirmation links.
	BaseURL string `mapstructure:"base_url"`
}

// Server is the http server
type Server struct {
	hs   *http.Server
	c    *Config
	done chan struct{}
}

// New creates a new server
func New(config *Config) *Server {
	return &Server{
		c:    config,
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) handler(fe *frontend.Server, rep dependency.Repository) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.c.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
	}))

	r.Get("/health_check", s.handleHealthCheck(rep))
	r.Post("/subscriptions", s.handleSubscribe(fe))
	r.Get("/subscriptions/confirm", s.handleConfirm(fe))
	r.Get("/subscriptions/{subscriptionId}", s.handleGetSubscription(rep))

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context, fe *frontend.Server, rep dependency.Repository) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:    listenerAddr,
		Handler: s.handler(fe, rep),
	}

	go func() {
		slog.Default().InfoContext(ctx, fmt.Sprintf("newsletter-manager new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) {
	if s.hs == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.hs.Shutdown(shutdownCtx); err != nil {
		slog.Default().ErrorContext(ctx, "http server shutdown failed",
			slog.String("err", err.Error()),
		)
	}
}

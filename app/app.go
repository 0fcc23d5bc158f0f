package app

import (
	"context"

	"log/slog"

	"github.com/jekabolt/newsletter-manager/config"
	httpapi "github.com/jekabolt/newsletter-manager/internal/api/http"
	"github.com/jekabolt/newsletter-manager/internal/apisrv/frontend"
	"github.com/jekabolt/newsletter-manager/internal/dependency"
	"github.com/jekabolt/newsletter-manager/internal/mail"
	"github.com/jekabolt/newsletter-manager/internal/store"
)

// App is the main application
type App struct {
	hs     *httpapi.Server
	db     dependency.Repository
	mailer dependency.Mailer
	c      *config.Config
	done   chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting newsletter manager")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()),
		)
		return err
	}

	a.mailer, err = mail.New(&a.c.Mailer, a.db.Mail())
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create mailer",
			slog.String("err", err.Error()),
		)
		return err
	}

	frontendS := frontend.New(a.db, a.mailer, a.c.HTTP.BaseURL)

	a.hs = httpapi.New(&a.c.HTTP)
	if err = a.hs.Start(ctx, frontendS, a.db); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	a.hs.Stop(ctx)
	a.db.Close()
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}

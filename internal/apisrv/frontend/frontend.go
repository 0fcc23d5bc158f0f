package frontend

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/jekabolt/newsletter-manager/internal/dependency"
	"github.com/jekabolt/newsletter-manager/internal/domain"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
)

// Server implements handlers for frontend requests. It owns the
// subscription state machine: sign-up creates a pending row plus a
// token and dispatches the confirmation email, confirmation resolves a
// token and flips the row to confirmed.
type Server struct {
	repo    dependency.Repository
	mailer  dependency.Mailer
	baseURL string
}

// New creates a new server with frontend handlers.
func New(r dependency.Repository, m dependency.Mailer, baseURL string) *Server {
	return &Server{
		repo:    r,
		mailer:  m,
		baseURL: baseURL,
	}
}

// Subscribe runs the sign-up sequence: validate, insert pending row,
// mint and link a token, dispatch the confirmation email. Validation
// failures happen before any side effect. A dispatch failure leaves the
// subscriber and token persisted; there is no rollback and no retry.
func (s *Server) Subscribe(ctx context.Context, rawEmail, rawName string) error {
	ns, err := domain.NewSubscriberFromForm(rawEmail, rawName)
	if err != nil {
		return err
	}

	id, err := s.repo.Subscriptions().InsertSubscriber(ctx, ns)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't insert subscriber",
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("can't insert subscriber: %w", err)
	}

	token := domain.NewSubscriptionToken()
	if err := s.repo.Subscriptions().LinkToken(ctx, id, token); err != nil {
		slog.Default().ErrorContext(ctx, "can't link subscription token",
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("can't link subscription token: %w", err)
	}

	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	if err := s.mailer.SendConfirmation(ctx, ns.Email, link); err != nil {
		// the pending row and token stay persisted; reconciling this
		// window is out of scope
		slog.Default().ErrorContext(ctx, "can't send confirmation email",
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("can't send confirmation email: %w", err)
	}

	return nil
}

// ConfirmSubscription resolves the token and confirms the subscriber.
// An empty token is rejected before any store access. Reusing a valid
// token after confirmation succeeds again: the transition has no
// precondition on current status.
func (s *Server) ConfirmSubscription(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token parameter is missing: %w", gerr.ErrTokenNotFound)
	}

	id, err := s.repo.Subscriptions().ResolveToken(ctx, token)
	if err != nil {
		return fmt.Errorf("can't resolve subscription token: %w", err)
	}

	if err := s.repo.Subscriptions().Confirm(ctx, id); err != nil {
		slog.Default().ErrorContext(ctx, "can't confirm subscriber",
			slog.String("err", err.Error()),
			slog.String("subscriberId", id.String()),
		)
		return fmt.Errorf("can't confirm subscriber: %w", err)
	}

	return nil
}

package httpapi

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jekabolt/newsletter-manager/internal/apisrv/frontend"
	"github.com/jekabolt/newsletter-manager/internal/dependency"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
)

func (s *Server) handleSubscribe(fe *frontend.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}

		err := fe.Subscribe(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("name"))
		switch {
		case err == nil:
			render.Render(w, r, NewStatusResponse(http.StatusOK))
		case gerr.IsClient(err):
			render.Render(w, r, ErrInvalidRequest(err))
		default:
			slog.Default().ErrorContext(r.Context(), "subscribe failed",
				slog.String("err", err.Error()),
			)
			render.Render(w, r, ErrInternalServerError())
		}
	}
}

func (s *Server) handleConfirm(fe *frontend.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("subscription_token")

		err := fe.ConfirmSubscription(r.Context(), token)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case gerr.IsClient(err):
			render.Render(w, r, ErrInvalidRequest(err))
		default:
			slog.Default().ErrorContext(r.Context(), "confirm failed",
				slog.String("err", err.Error()),
			)
			render.Render(w, r, ErrInternalServerError())
		}
	}
}

type subscriptionResponse struct {
	Id           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Status       string    `json:"status"`
}

func (sr *subscriptionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// handleGetSubscription is an operator lookup for a single subscription
// row, used to inspect the state of a sign-up.
func (s *Server) handleGetSubscription(rep dependency.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "subscriptionId"))
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}

		sub, err := rep.Subscriptions().GetSubscription(r.Context(), id)
		switch {
		case err == nil:
			render.Render(w, r, &subscriptionResponse{
				Id:           sub.ID.String(),
				Email:        sub.Email,
				Name:         sub.Name,
				SubscribedAt: sub.SubscribedAt,
				Status:       string(sub.Status),
			})
		case errors.Is(err, gerr.ErrSubscriberNotFound):
			render.Render(w, r, ErrNotFound())
		default:
			slog.Default().ErrorContext(r.Context(), "get subscription failed",
				slog.String("err", err.Error()),
			)
			render.Render(w, r, ErrInternalServerError())
		}
	}
}

func (s *Server) handleHealthCheck(rep dependency.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rep.Ping(r.Context()); err != nil {
			slog.Default().ErrorContext(r.Context(), "health check failed",
				slog.String("err", err.Error()),
			)
			render.Render(w, r, ErrInternalServerError())
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

package dependency

import (
	"context"

	"github.com/google/uuid"
	"github.com/jekabolt/newsletter-manager/internal/domain"
	"github.com/jekabolt/newsletter-manager/internal/entity"
	"github.com/jmoiron/sqlx"
)

type (
	// Subscriptions owns the persisted subscription rows and the
	// subscriber-to-token mapping. Each method is a single atomic
	// statement; the only cross-call guarantee is ordering.
	Subscriptions interface {
		// InsertSubscriber creates a row in pending_confirmation with a
		// fresh id and returns it.
		InsertSubscriber(ctx context.Context, ns domain.NewSubscriber) (uuid.UUID, error)
		// LinkToken records the token for a subscriber. Must be called
		// only after InsertSubscriber succeeded.
		LinkToken(ctx context.Context, subscriberID uuid.UUID, token string) error
		// ResolveToken returns the subscriber id for a token, or
		// gerr.ErrTokenNotFound.
		ResolveToken(ctx context.Context, token string) (uuid.UUID, error)
		// Confirm sets status to confirmed for exactly one row.
		Confirm(ctx context.Context, subscriberID uuid.UUID) error
		// GetSubscription returns a subscription row by id.
		GetSubscription(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	}

	// Mail is the dispatch audit trail. Rows are written best-effort
	// around each outbound send so operators can find subscribers whose
	// confirmation email never went out.
	Mail interface {
		AddMail(ctx context.Context, ea *entity.EmailAudit) (int, error)
		UpdateSent(ctx context.Context, id int) error
		AddError(ctx context.Context, id int, errMsg string) error
	}

	// Repository is the store handed to the application.
	Repository interface {
		Subscriptions() Subscriptions
		Mail() Mail
		Ping(ctx context.Context) error
		Close()
	}

	// Mailer dispatches confirmation emails. One attempt per call, no
	// retry; failures carry a gerr dispatch kind.
	Mailer interface {
		SendConfirmation(ctx context.Context, recipient domain.SubscriberEmail, confirmationLink string) error
	}

	// DB is the sqlx surface the store helpers run queries against.
	DB interface {
		sqlx.ExtContext
	}
)

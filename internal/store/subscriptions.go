package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jekabolt/newsletter-manager/internal/dependency"
	"github.com/jekabolt/newsletter-manager/internal/domain"
	"github.com/jekabolt/newsletter-manager/internal/entity"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
)

type subscriptionStore struct {
	*MYSQLStore
}

// Subscriptions returns an object implementing Subscriptions interface
func (ms *MYSQLStore) Subscriptions() dependency.Subscriptions {
	return &subscriptionStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) InsertSubscriber(ctx context.Context, ns domain.NewSubscriber) (uuid.UUID, error) {
	id := uuid.New()
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO subscriptions
		(id, email, name, subscribed_at, status)
	VALUES
		(:id, :email, :name, :subscribedAt, :status)`,
		map[string]any{
			"id":           id.String(),
			"email":        ns.Email.String(),
			"name":         ns.Name.String(),
			"subscribedAt": time.Now().UTC(),
			"status":       string(entity.StatusPendingConfirmation),
		})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert subscriber: %w", err)
	}
	return id, nil
}

func (ms *MYSQLStore) LinkToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO subscription_tokens
		(subscription_token, subscriber_id)
	VALUES
		(:token, :subscriberId)`,
		map[string]any{
			"token":        token,
			"subscriberId": subscriberID.String(),
		})
	if err != nil {
		return fmt.Errorf("failed to link subscription token: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) ResolveToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `SELECT subscription_token, subscriber_id FROM subscription_tokens WHERE subscription_token = :token`
	row, err := QueryNamedOne[entity.SubscriptionToken](ctx, ms.DB(), query, map[string]any{
		"token": token,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, gerr.ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve subscription token: %w", err)
	}
	return row.SubscriberID, nil
}

// Confirm flips the row to confirmed. Re-confirming an already
// confirmed row is a no-op write and reported as success.
func (ms *MYSQLStore) Confirm(ctx context.Context, subscriberID uuid.UUID) error {
	affected, err := ExecNamedAffected(ctx, ms.DB(), `UPDATE subscriptions SET status = :status WHERE id = :id`,
		map[string]any{
			"status": string(entity.StatusConfirmed),
			"id":     subscriberID.String(),
		})
	if err != nil {
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}
	switch {
	case affected == 0:
		return gerr.ErrSubscriberNotFound
	case affected > 1:
		// the primary key makes this unreachable; treat it as a data
		// integrity fault, not a client error
		return fmt.Errorf("%w: confirmed %d rows for id %s", gerr.ErrRowInvariant, affected, subscriberID)
	}
	return nil
}

func (ms *MYSQLStore) GetSubscription(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	query := `SELECT id, email, name, subscribed_at, status FROM subscriptions WHERE id = :id`
	sub, err := QueryNamedOne[entity.Subscription](ctx, ms.DB(), query, map[string]any{
		"id": id.String(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the persisted state of a subscription. The only
// transition is pending_confirmation -> confirmed.
type SubscriptionStatus string

const (
	StatusPendingConfirmation SubscriptionStatus = "pending_confirmation"
	StatusConfirmed           SubscriptionStatus = "confirmed"
)

type Subscription struct {
	ID           uuid.UUID          `db:"id"`
	Email        string             `db:"email"`
	Name         string             `db:"name"`
	SubscribedAt time.Time          `db:"subscribed_at"`
	Status       SubscriptionStatus `db:"status"`
}

type SubscriptionToken struct {
	Token        string    `db:"subscription_token"`
	SubscriberID uuid.UUID `db:"subscriber_id"`
}

package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jekabolt/newsletter-manager/internal/domain"
	"github.com/jekabolt/newsletter-manager/internal/entity"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*MYSQLStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &MYSQLStore{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func newSubscriber(t *testing.T) domain.NewSubscriber {
	ns, err := domain.NewSubscriberFromForm("ursula_le_guin@gmail.com", "le guin")
	require.NoError(t, err)
	return ns
}

func TestSubscriptions_InsertSubscriber(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(sqlmock.AnyArg(), "ursula_le_guin@gmail.com", "le guin", sqlmock.AnyArg(), "pending_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := ss.InsertSubscriber(context.Background(), newSubscriber(t))
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_InsertSubscriber_PersistenceFailure(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WillReturnError(assert.AnError)

	_, err := ss.InsertSubscriber(context.Background(), newSubscriber(t))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_LinkToken(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	id := uuid.New()
	token := domain.NewSubscriptionToken()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscription_tokens")).
		WithArgs(token, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ss.LinkToken(context.Background(), id, token)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_ResolveToken(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	id := uuid.New()
	token := domain.NewSubscriptionToken()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT subscription_token, subscriber_id FROM subscription_tokens")).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"subscription_token", "subscriber_id"}).
			AddRow(token, id.String()))

	got, err := ss.ResolveToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_ResolveToken_NotFound(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT subscription_token, subscriber_id FROM subscription_tokens")).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"subscription_token", "subscriber_id"}))

	_, err := ss.ResolveToken(context.Background(), "unknown")
	assert.ErrorIs(t, err, gerr.ErrTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_Confirm(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = ? WHERE id = ?")).
		WithArgs("confirmed", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ss.Confirm(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_Confirm_NotFound(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = ? WHERE id = ?")).
		WithArgs("confirmed", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ss.Confirm(context.Background(), id)
	assert.ErrorIs(t, err, gerr.ErrSubscriberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_Confirm_RowInvariant(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = ? WHERE id = ?")).
		WithArgs("confirmed", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := ss.Confirm(context.Background(), id)
	assert.ErrorIs(t, err, gerr.ErrRowInvariant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptions_GetSubscription(t *testing.T) {
	ms, mock := newMockStore(t)
	ss := ms.Subscriptions()

	id := uuid.New()
	subscribedAt := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, subscribed_at, status FROM subscriptions")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "subscribed_at", "status"}).
			AddRow(id.String(), "ursula_le_guin@gmail.com", "le guin", subscribedAt, "pending_confirmation"))

	sub, err := ss.GetSubscription(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "ursula_le_guin@gmail.com", sub.Email)
	assert.Equal(t, entity.StatusPendingConfirmation, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

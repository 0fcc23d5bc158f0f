package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/jekabolt/newsletter-manager/internal/domain"
	"github.com/jekabolt/newsletter-manager/internal/entity"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linkRe = regexp.MustCompile(`https?://[^\s"<>]+`)

// auditStub records the audit trail calls made around a send.
type auditStub struct {
	added      []entity.EmailAudit
	sentIDs    []int
	errentries map[int]string
}

func (a *auditStub) AddMail(ctx context.Context, ea *entity.EmailAudit) (int, error) {
	a.added = append(a.added, *ea)
	return len(a.added), nil
}

func (a *auditStub) UpdateSent(ctx context.Context, id int) error {
	a.sentIDs = append(a.sentIDs, id)
	return nil
}

func (a *auditStub) AddError(ctx context.Context, id int, errMsg string) error {
	if a.errentries == nil {
		a.errentries = map[int]string{}
	}
	a.errentries[id] = errMsg
	return nil
}

func newTestMailer(t *testing.T, baseURL string, timeout time.Duration) (*Mailer, *auditStub) {
	audit := &auditStub{}
	m, err := New(&Config{
		APIBaseURL:  baseURL,
		ServerToken: "test-token",
		FromEmail:   "newsletter@example.com",
		FromName:    "Newsletter",
		SendTimeout: timeout,
	}, audit)
	require.NoError(t, err)
	return m, audit
}

func recipient(t *testing.T) domain.SubscriberEmail {
	email, err := domain.ParseSubscriberEmail("ursula_le_guin@gmail.com")
	require.NoError(t, err)
	return email
}

func TestMailer_SendConfirmation(t *testing.T) {
	var got sendEmailRequest
	var gotToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m, audit := newTestMailer(t, srv.URL, time.Second)

	link := "https://newsletter.example.com/subscriptions/confirm?subscription_token=abc123"
	err := m.SendConfirmation(context.Background(), recipient(t), link)
	assert.NoError(t, err)

	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "ursula_le_guin@gmail.com", got.To)
	assert.Equal(t, "Newsletter <newsletter@example.com>", got.From)
	assert.Equal(t, "Welcome!", got.Subject)

	// each body carries the confirmation link exactly once
	assert.Equal(t, []string{link}, linkRe.FindAllString(got.HtmlBody, -1))
	assert.Equal(t, []string{link}, linkRe.FindAllString(got.TextBody, -1))

	// the attempt is audited and marked sent
	require.Len(t, audit.added, 1)
	assert.Equal(t, "ursula_le_guin@gmail.com", audit.added[0].To)
	assert.Equal(t, []int{1}, audit.sentIDs)
}

func TestMailer_Send_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m, audit := newTestMailer(t, srv.URL, time.Second)

	err := m.Send(context.Background(), recipient(t), "Welcome!", "html", "text")
	assert.ErrorIs(t, err, gerr.ErrDispatchRejected)

	// the failure lands on the audit row
	assert.Empty(t, audit.sentIDs)
	assert.Contains(t, audit.errentries[1], "status code 500")
}

func TestMailer_Send_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	m, _ := newTestMailer(t, srv.URL, 50*time.Millisecond)

	err := m.Send(context.Background(), recipient(t), "Welcome!", "html", "text")
	assert.ErrorIs(t, err, gerr.ErrDispatchTimeout)
}

func TestMailer_Send_Transport(t *testing.T) {
	// a closed server yields a connection error, not a timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	m, audit := newTestMailer(t, srv.URL, time.Second)

	err := m.Send(context.Background(), recipient(t), "Welcome!", "html", "text")
	assert.ErrorIs(t, err, gerr.ErrDispatchTransport)
	assert.NotEmpty(t, audit.errentries[1])
}

func TestMailer_New_IncompleteConfig(t *testing.T) {
	_, err := New(&Config{APIBaseURL: "http://localhost"}, &auditStub{})
	assert.Error(t, err)
}

func TestMailer_New_DefaultTimeout(t *testing.T) {
	c := &Config{
		APIBaseURL:  "http://localhost",
		ServerToken: "test-token",
		FromEmail:   "newsletter@example.com",
	}
	m, err := New(c, &auditStub{})
	require.NoError(t, err)

	assert.Equal(t, defaultSendTimeout, m.c.SendTimeout)
	// the caller's config is not written through
	assert.Zero(t, c.SendTimeout)
}

package mail

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"text/template"
	"time"

	"github.com/jekabolt/newsletter-manager/internal/dependency"
	"github.com/jekabolt/newsletter-manager/internal/domain"
	"github.com/jekabolt/newsletter-manager/internal/entity"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
)

//go:embed templates/*.gohtml templates/*.gotxt
var templatesFS embed.FS

const defaultSendTimeout = 10 * time.Second

type Config struct {
	APIBaseURL  string        `mapstructure:"api_base_url"`
	ServerToken string        `mapstructure:"server_token"`
	FromEmail   string        `mapstructure:"from_email"`
	FromName    string        `mapstructure:"from_email_name"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// Mailer sends confirmation emails through a Postmark-style HTTP API.
// One request per send, bounded by SendTimeout, never retried here.
// Every attempt leaves an audit row behind via the mail repository.
type Mailer struct {
	cli            *http.Client
	c              *Config
	templates      map[string]*template.Template
	mailRepository dependency.Mail
}

// sendEmailRequest is the provider wire format.
type sendEmailRequest struct {
	From     string
	To       string
	Subject  string
	HtmlBody string
	TextBody string
}

func New(c *Config, mailRepository dependency.Mail) (*Mailer, error) {
	if c.APIBaseURL == "" || c.ServerToken == "" || c.FromEmail == "" {
		return nil, fmt.Errorf("incomplete mailer config")
	}

	// defaulting happens on a copy, the caller's config stays untouched
	cfg := *c
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	m := &Mailer{
		cli:            &http.Client{},
		c:              &cfg,
		templates:      make(map[string]*template.Template),
		mailRepository: mailRepository,
	}

	if err := m.parseTemplates(); err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	return m, nil
}

func (m *Mailer) parseTemplates() error {
	templateDir := "templates"

	dirEntries, err := templatesFS.ReadDir(templateDir)
	if err != nil {
		return fmt.Errorf("error reading template directory: %w", err)
	}

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		templatePath := filepath.Join(templateDir, entry.Name())

		tmpl, err := template.ParseFS(templatesFS, templatePath)
		if err != nil {
			return fmt.Errorf("error parsing template '%s': %w", entry.Name(), err)
		}

		m.templates[entry.Name()] = tmpl
	}

	return nil
}

func (m *Mailer) render(name string, data any) (string, error) {
	tmpl, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %v", name)
	}
	body := &bytes.Buffer{}
	if err := tmpl.Execute(body, data); err != nil {
		return "", fmt.Errorf("error executing template: %w", err)
	}
	return body.String(), nil
}

// Send issues one outbound request to the provider. Failures are
// classified into the closed dispatch kinds and never retried. The
// attempt is recorded in the audit trail either way; audit write
// failures are logged and never mask the dispatch outcome.
func (m *Mailer) Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	ctx, cancel := context.WithTimeout(ctx, m.c.SendTimeout)
	defer cancel()

	ser := sendEmailRequest{
		From:     fmt.Sprintf("%s <%s>", m.c.FromName, m.c.FromEmail),
		To:       recipient.String(),
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	auditID, auditErr := m.mailRepository.AddMail(ctx, &entity.EmailAudit{
		From:    m.c.FromEmail,
		To:      recipient.String(),
		Subject: subject,
	})
	if auditErr != nil {
		slog.Default().ErrorContext(ctx, "can't add mail audit row",
			slog.String("err", auditErr.Error()),
		)
	}

	if err := m.audited(auditID, auditErr == nil, m.send(ctx, ser)); err != nil {
		return err
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, ser sendEmailRequest) error {
	payload, err := json.Marshal(ser)
	if err != nil {
		return fmt.Errorf("error marshaling email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.c.APIBaseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", m.c.ServerToken)

	resp, err := m.cli.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status code %d", gerr.ErrDispatchRejected, resp.StatusCode)
	}

	return nil
}

// audited records the dispatch outcome on the audit row. The audit
// update runs without the request deadline so a timed-out send still
// leaves its error behind.
func (m *Mailer) audited(auditID int, haveRow bool, sendErr error) error {
	if !haveRow {
		return sendErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSendTimeout)
	defer cancel()

	if sendErr != nil {
		if err := m.mailRepository.AddError(ctx, auditID, sendErr.Error()); err != nil {
			slog.Default().ErrorContext(ctx, "can't record mail audit error",
				slog.String("err", err.Error()),
			)
		}
		return sendErr
	}

	if err := m.mailRepository.UpdateSent(ctx, auditID); err != nil {
		slog.Default().ErrorContext(ctx, "can't mark mail audit row sent",
			slog.String("err", err.Error()),
		)
	}
	return nil
}

func classifyTransportErr(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", gerr.ErrDispatchTimeout, err)
	}
	return fmt.Errorf("%w: %v", gerr.ErrDispatchTransport, err)
}

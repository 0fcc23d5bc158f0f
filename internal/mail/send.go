package mail

import (
	"context"
	"fmt"

	"github.com/jekabolt/newsletter-manager/internal/domain"
)

const (
	ConfirmationHTML = "confirmation.gohtml"
	ConfirmationText = "confirmation.gotxt"
)

const confirmationSubject = "Welcome!"

type confirmationData struct {
	ConfirmationLink string
}

// SendConfirmation sends the welcome email carrying the confirmation
// link. Each body contains the link exactly once.
func (m *Mailer) SendConfirmation(ctx context.Context, recipient domain.SubscriberEmail, confirmationLink string) error {
	data := confirmationData{ConfirmationLink: confirmationLink}

	htmlBody, err := m.render(ConfirmationHTML, data)
	if err != nil {
		return fmt.Errorf("error rendering html body: %w", err)
	}
	textBody, err := m.render(ConfirmationText, data)
	if err != nil {
		return fmt.Errorf("error rendering text body: %w", err)
	}

	return m.Send(ctx, recipient, confirmationSubject, htmlBody, textBody)
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jekabolt/newsletter-manager/internal/dependency"
	"github.com/jekabolt/newsletter-manager/internal/entity"
)

type mailStore struct {
	*MYSQLStore
}

// Mail returns an object implementing mail interface
func (ms *MYSQLStore) Mail() dependency.Mail {
	return &mailStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddMail(ctx context.Context, ea *entity.EmailAudit) (int, error) {
	query := `
	INSERT INTO
	email_audit
		(from_email, to_email, subject, sent, sent_at)
	VALUES
		(:fromEmail, :toEmail, :subject, :sent, :sentAt)
	`
	params := map[string]any{
		"fromEmail": ea.From,
		"toEmail":   ea.To,
		"subject":   ea.Subject,
		"sent":      ea.Sent,
	}
	if ea.Sent {
		params["sentAt"] = sql.NullTime{Time: time.Now(), Valid: true}
	} else {
		params["sentAt"] = sql.NullTime{Time: time.Now(), Valid: false}
	}

	id, err := ExecNamedLastId(ctx, ms.DB(), query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to add mail: %w", err)
	}

	return id, nil
}

func (ms *MYSQLStore) UpdateSent(ctx context.Context, id int) error {
	query := `UPDATE email_audit SET sent = true, sent_at = :sentAt WHERE id = :id`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"id":     id,
		"sentAt": sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err != nil {
		return fmt.Errorf("failed to update sent: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) AddError(ctx context.Context, id int, errMsg string) error {
	query := `UPDATE email_audit SET error_msg = :err WHERE id = :id`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"id":  id,
		"err": errMsg,
	})
	if err != nil {
		return fmt.Errorf("failed to update error message: %w", err)
	}
	return nil
}

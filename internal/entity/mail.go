package entity

import (
	"database/sql"
	"time"
)

// EmailAudit is the persisted record of one outbound dispatch attempt.
// Dispatch is never retried in-process; the audit row is how operators
// find subscribers whose confirmation email never went out.
type EmailAudit struct {
	Id        int            `db:"id"`
	From      string         `db:"from_email"`
	To        string         `db:"to_email"`
	Subject   string         `db:"subject"`
	Sent      bool           `db:"sent"`
	SentAt    sql.NullTime   `db:"sent_at"`
	CreatedAt time.Time      `db:"created_at"`
	ErrMsg    sql.NullString `db:"error_msg"`
}

package domain

import (
	"fmt"

	v "github.com/asaskevich/govalidator"
	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
)

// SubscriberEmail is a syntactically valid email address. The only way
// to obtain one is ParseSubscriberEmail, so downstream code never
// re-validates.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw against a standard email syntax
// check and wraps it.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if !v.IsEmail(raw) {
		return SubscriberEmail{}, fmt.Errorf("%w: %q is not a valid email address", gerr.ErrInvalidEmail, raw)
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}

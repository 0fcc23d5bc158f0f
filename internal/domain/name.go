package domain

import (
	"fmt"
	"strings"

	gerr "github.com/jekabolt/newsletter-manager/internal/errors"
	"github.com/rivo/uniseg"
)

const maxNameGraphemes = 256

const forbiddenNameCharacters = `/()"<>\{}`

// SubscriberName is a display name that is non-empty, at most 256
// grapheme clusters long and free of characters that could break out
// of markup or queries.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw and wraps it.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, fmt.Errorf("%w: name is empty", gerr.ErrInvalidName)
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("%w: name is longer than %d characters", gerr.ErrInvalidName, maxNameGraphemes)
	}
	if strings.ContainsAny(raw, forbiddenNameCharacters) {
		return SubscriberName{}, fmt.Errorf("%w: name contains a forbidden character", gerr.ErrInvalidName)
	}
	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}

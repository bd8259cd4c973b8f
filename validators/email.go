// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	// mail.ParseAddress accepts addresses without a domain part,
	// which we don't want for account identifiers
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	local, domain, ok := strings.Cut(e, "@")
	if !ok || local == "" || domain == "" {
		return ErrEmailInvalid
	}

	return nil
}

package email

import (
	"context"
	"fmt"
	"regexp"
)

// SendEmailParams is a fully rendered outbound message.
type SendEmailParams struct {
	SendTo   string // recipient address (required)
	Subject  string // subject line (required)
	BodyHTML string // HTML body (required)
	BodyText string // optional plain-text alternative
	Tag      string // optional tag for logging and provider analytics
}

// Validate checks the minimum fields a sender needs.
func (p SendEmailParams) Validate() error {
	if p.SendTo == "" || !isValidEmail(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}

// EmailSender delivers one rendered message. Implementations live under
// integration/email; the Dispatcher is the only component that calls them.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(addr string) bool {
	return emailRegex.MatchString(addr)
}

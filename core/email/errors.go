package email

import "errors"

var (
	// ErrFailedToSendEmail wraps transport-level delivery failures.
	ErrFailedToSendEmail = errors.New("failed to send email")
	// ErrInvalidConfig is returned for unusable sender configuration.
	ErrInvalidConfig = errors.New("invalid email configuration")
	// ErrInvalidParams is returned for unusable message parameters.
	ErrInvalidParams = errors.New("invalid email parameters")
	// ErrRenderTemplate is returned when an email template fails to render.
	ErrRenderTemplate = errors.New("failed to render email template")
)

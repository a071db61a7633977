package passreset

import "errors"

var (
	// ErrRenderEmail indicates the reset email could not be rendered.
	ErrRenderEmail = errors.New("failed to render password reset email")
)

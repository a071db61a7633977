package email

import (
	"embed"
	"errors"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// PasswordResetData fills the password-reset templates.
type PasswordResetData struct {
	Username string
	Token    string
	PanelURL string
}

// PasswordResetSubject is the subject line of reset emails.
const PasswordResetSubject = "Password Reset"

// RenderPasswordReset renders the reset email in both HTML and plain-text
// forms, addressed to the account's backup email.
func RenderPasswordReset(to string, data PasswordResetData) (SendEmailParams, error) {
	var html, text strings.Builder

	if err := htmlTemplates.ExecuteTemplate(&html, "password_reset.html", data); err != nil {
		return SendEmailParams{}, errors.Join(ErrRenderTemplate, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, "password_reset.txt", data); err != nil {
		return SendEmailParams{}, errors.Join(ErrRenderTemplate, err)
	}

	return SendEmailParams{
		SendTo:   to,
		Subject:  PasswordResetSubject,
		BodyHTML: html.String(),
		BodyText: text.String(),
		Tag:      "password_reset",
	}, nil
}

// Package smtp implements email.EmailSender over a plain SMTP server, the
// usual transport when the panel runs next to the mail server it manages.
// Supports STARTTLS, direct TLS, and unencrypted connections, and sends
// multipart/alternative messages when a plain-text body is provided.
package smtp

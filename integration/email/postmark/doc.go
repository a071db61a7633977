// Package postmark implements email.EmailSender over Postmark's
// transactional email API.
package postmark

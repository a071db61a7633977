// Package email renders outbound panel mail and serializes delivery through
// a single background dispatcher.
//
// The Dispatcher is the only component that touches the mail transport. Any
// part of the system may Enqueue a rendered message; submission never blocks
// and never fails visibly: a full queue or stopped worker drops the message
// with a warning. Delivery failures are logged and never retried. On
// shutdown the dispatcher drains already-buffered messages before exiting.
//
// Concrete EmailSender implementations live under integration/email; the
// DevSender here writes messages to disk for local development.
package email

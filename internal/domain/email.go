package domain

// Mailer sends an email. Implementations may use SES or a noop for
// development. Sending is best-effort from the workflows' perspective:
// a failed notification never fails the workflow that triggered it.
type Mailer interface {
	Send(to, subject, html, text string) error
}

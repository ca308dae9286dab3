// Package mailer dispatches transactional email. Delivery goes through an
// external mail API; the portal only composes and posts messages.
package mailer

import (
	"context"
	"fmt"
)

// Mailer sends portal email. Implementations must never log message bodies
// that contain codes or links.
type Mailer interface {
	// Send dispatches one message. to is required.
	Send(ctx context.Context, to, subject, text, html string) error
	// SendTwoFactorCode dispatches the one-time login code to the account email.
	SendTwoFactorCode(ctx context.Context, to, displayName, code string, ttlMinutes int) error
}

func twoFactorSubject() string {
	return "KidsMin Portal: your login code"
}

func twoFactorBody(displayName, code string, ttlMinutes int) (text, html string) {
	greeting := "Hello"
	if displayName != "" {
		greeting = "Hello " + displayName
	}
	text = fmt.Sprintf("%s,\n\nYour login code is %s. It expires in %d minutes.\n", greeting, code, ttlMinutes)
	html = fmt.Sprintf("<p>%s,</p><p>Your login code is <b>%s</b>. It expires in %d minutes.</p>", greeting, code, ttlMinutes)
	return text, html
}

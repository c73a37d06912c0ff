package email

import (
	"fmt"
	"html"
)

// WelcomeEmail builds the signup welcome message. name may be empty for
// accounts created without profile details.
func WelcomeEmail(to, name string) SendRequest {
	greeting := "Hello"
	if name != "" {
		greeting = fmt.Sprintf("Hello %s", html.EscapeString(name))
	}
	body := fmt.Sprintf(`<p>%s,</p>
<p>Your canteen account is ready. Sign in to set your meal preferences
and pick your favourites for the week.</p>
<p>Bon app&eacute;tit!</p>`, greeting)

	return SendRequest{
		To:      to,
		Subject: "Welcome to the canteen",
		HTML:    body,
	}
}

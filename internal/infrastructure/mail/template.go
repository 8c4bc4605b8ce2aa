package mail

import (
	"fmt"
	"html"

	"github.com/baechuer/account-service/internal/application/account"
)

const verificationSubject = "Confirm your registration"

func renderVerificationText(msg account.VerificationEmail) string {
	return fmt.Sprintf(
		"Hello %s,\n\nConfirm your registration by opening this link:\n\n%s\n\nOr use the following PIN when logged in: %s\n",
		msg.Username, msg.Link, msg.PIN,
	)
}

func renderVerificationHTML(msg account.VerificationEmail) string {
	// minimal safe escaping
	escName := html.EscapeString(msg.Username)
	escLink := html.EscapeString(msg.Link)
	escPIN := html.EscapeString(msg.PIN)

	return `<!doctype html>
<html>
  <body style="font-family:Arial,Helvetica,sans-serif; line-height:1.4;">
    <div style="margin:0 auto; max-width:500px; border:1px solid #111; padding:16px; text-align:center;">
      <h2>Hello ` + escName + `,</h2>
      <p>Please click <a href="` + escLink + `">here</a> to confirm your registration.</p>
      <p>Or use the following PIN when logged in: <b>` + escPIN + `</b></p>
      <p style="color:#555; font-size:12px;">
        If the link doesn't work, open this address:<br/>
        <a href="` + escLink + `">` + escLink + `</a>
      </p>
    </div>
  </body>
</html>`
}

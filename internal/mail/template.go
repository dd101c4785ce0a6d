package mail

import "html/template"

// confirmationTemplate renders the body of the address-confirmation email.
// The link points back at the API's confirm endpoint carrying the signed
// email token.
var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thanks for signing up. Please confirm your email address by following the link below:</p>
  <p><a href="{{.Host}}/api/auth/confirmed_email/{{.Token}}">Confirm my email</a></p>
  <p>If you did not create this account you can ignore this message.</p>
</body>
</html>`))

type confirmationData struct {
	Name  string
	Host  string
	Token string
}

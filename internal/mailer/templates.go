package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email bodies are small enough to keep inline; the link target is the
// frontend, which exchanges the token against the API.

var verifyTmpl = template.Must(template.New("verify").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>Welcome to {{.Project}}. Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>The link is valid for {{.ValidHours}} hours. If you did not sign up, you can ignore this email.</p>
</body>
</html>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>We received a request to reset the password for your {{.Project}} account:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link is valid for {{.ValidMinutes}} minutes. If you did not request this, you can ignore this email.</p>
</body>
</html>`))

// Templates renders the outbound emails for a deployment.
type Templates struct {
	Project     string
	FrontendURL string
}

// VerificationEmail renders the email-verification message
func (t Templates) VerificationEmail(name, token string, validHours int) (subject, html string, err error) {
	subject = fmt.Sprintf("%s - verify your email", t.Project)
	var buf bytes.Buffer
	err = verifyTmpl.Execute(&buf, map[string]interface{}{
		"Name":       name,
		"Project":    t.Project,
		"Link":       fmt.Sprintf("%sverify-email?token=%s", t.FrontendURL, token),
		"ValidHours": validHours,
	})
	return subject, buf.String(), err
}

// ResetPasswordEmail renders the password-recovery message
func (t Templates) ResetPasswordEmail(name, token string, validMinutes int) (subject, html string, err error) {
	subject = fmt.Sprintf("%s - password recovery", t.Project)
	var buf bytes.Buffer
	err = resetTmpl.Execute(&buf, map[string]interface{}{
		"Name":         name,
		"Project":      t.Project,
		"Link":         fmt.Sprintf("%sreset-password?token=%s", t.FrontendURL, token),
		"ValidMinutes": validMinutes,
	})
	return subject, buf.String(), err
}

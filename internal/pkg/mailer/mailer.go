package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
)

// Mailer sends transactional email over SMTP
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// New creates a new mailer
func New(host, port, username, password, from, fromName string) *Mailer {
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		FromName: fromName,
	}
}

const otpTemplate = `<h3>Hi there,
Thank you for signing up to Skool LMS. Copy the OTP below to verify your email:</h3>
<h1>{{.OTP}}</h1>
<h3>This OTP will expire in 10 minutes. If you did not sign up for a Skool LMS account,
you can safely ignore this email. <br>
<br>
Best, <br>
The Skool LMS Team</h3>`

// SendOTP emails a one-time verification code to a new user
func (m *Mailer) SendOTP(to, code string) error {
	t, err := template.New("otp").Parse(otpTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"OTP": code}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return m.send(to, "Skool LMS - Email Verification", body.String(), true)
}

// SendPasswordReset emails a password-reset link
func (m *Mailer) SendPasswordReset(to, link string) error {
	body := fmt.Sprintf("You are receiving this because you (or someone else) has requested the reset of the password for your account.\r\n\r\n"+
		"Please click on the following link, or paste this into your browser to complete the process within one hour of receiving it:\r\n\r\n%s\r\n\r\n"+
		"If you did not request this, please ignore this email and your password will remain unchanged.\r\n", link)

	return m.send(to, "Password Reset", body, false)
}

func (m *Mailer) send(to, subject, body string, html bool) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", m.FromName, m.From)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	if html {
		headers["Content-Type"] = "text/html; charset=\"UTF-8\""
	} else {
		headers["Content-Type"] = "text/plain; charset=\"UTF-8\""
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	// Without an SMTP host, log the mail instead of sending. Keeps local
	// development working without credentials.
	if m.Host == "" {
		log.Printf("📧 [mock email] to=%s subject=%q", to, subject)
		return nil
	}

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(message))
}

package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/annazecevic/catalog-service/logger"
)

type EmailService interface {
	SendAwardEmail(to, artistName, singleTitle, award string, listens int64) error
	SendPublicationEmail(to, artistName, singleTitle, releaseDate, albumTitle string) error
}

type emailService struct {
	smtpHost string
	smtpPort string
	username string
	password string
	from     string
	appURL   string
}

func NewEmailService(smtpHost, smtpPort, username, password, from, appURL string) EmailService {
	return &emailService{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
		appURL:   appURL,
	}
}

const emailLayout = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #7B2FF7; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f4f4f4; }
        .badge { display: inline-block; padding: 12px 30px; background-color: #7B2FF7; color: white; border-radius: 5px; margin: 20px 0; font-weight: bold; }
        .footer { text-align: center; padding: 20px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
        <div class="content">
            <h2>Hi %s,</h2>
            %s
            <p><a href="%s">Open your catalog</a></p>
        </div>
        <div class="footer">
            <p>Harmoniq Records</p>
        </div>
    </div>
</body>
</html>
`

func (e *emailService) SendAwardEmail(to, artistName, singleTitle, award string, listens int64) error {
	subject := fmt.Sprintf("Your single reached %s - Harmoniq", award)
	content := fmt.Sprintf(
		`<p>Congratulations! <strong>%s</strong> just crossed the %s threshold with %d listens.</p>
            <div class="badge">%s</div>`,
		html.EscapeString(singleTitle), html.EscapeString(award), listens, html.EscapeString(award),
	)
	body := fmt.Sprintf(emailLayout, "New award", html.EscapeString(artistName), content, e.appURL)
	return e.sendEmail(to, subject, body)
}

func (e *emailService) SendPublicationEmail(to, artistName, singleTitle, releaseDate, albumTitle string) error {
	subject := "Your single is live - Harmoniq"
	content := fmt.Sprintf(
		`<p><strong>%s</strong> has been published to the catalog.</p>`,
		html.EscapeString(singleTitle),
	)
	if releaseDate != "" {
		content += fmt.Sprintf("\n            <p>Release date: %s</p>", html.EscapeString(releaseDate))
	}
	if albumTitle != "" {
		content += fmt.Sprintf("\n            <p>Album: %s</p>", html.EscapeString(albumTitle))
	}
	body := fmt.Sprintf(emailLayout, "Published", html.EscapeString(artistName), content, e.appURL)
	return e.sendEmail(to, subject, body)
}

func (e *emailService) sendEmail(to, subject, body string) error {
	if e.username == "" || e.password == "" {
		logger.Warn(logger.EventNotificationFailed, "SMTP credentials missing, e-mail not sent", logger.Fields(
			"to", to,
			"subject", subject,
		))
		return nil
	}

	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)

	headers := [][2]string{
		{"From", e.from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var message strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&message, "%s: %s\r\n", h[0], h[1])
	}
	message.WriteString("\r\n" + body)

	addr := fmt.Sprintf("%s:%s", e.smtpHost, e.smtpPort)
	if err := smtp.SendMail(addr, auth, e.from, []string{to}, []byte(message.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

type mockEmailService struct{}

func NewMockEmailService() EmailService {
	return &mockEmailService{}
}

func (m *mockEmailService) SendAwardEmail(to, artistName, singleTitle, award string, listens int64) error {
	logger.Info(logger.EventGeneral, "Award e-mail (mock)", logger.Fields(
		"to", to,
		"single", singleTitle,
		"award", award,
		"listens", listens,
	))
	return nil
}

func (m *mockEmailService) SendPublicationEmail(to, artistName, singleTitle, releaseDate, albumTitle string) error {
	logger.Info(logger.EventGeneral, "Publication e-mail (mock)", logger.Fields(
		"to", to,
		"single", singleTitle,
		"release_date", releaseDate,
		"album", albumTitle,
	))
	return nil
}

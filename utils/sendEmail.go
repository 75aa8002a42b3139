package utils

import (
	"fmt"
	"os"
	"strconv"

	"inventory-gateway-backend/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Initialize the SMTP mailer once and store it in a global variable
var mailer *gomail.Dialer

// InitializeMailer sets up the mailer using environment variables
func InitializeMailer() {
	mailHost := os.Getenv("SMTP_HOST")
	mailPort := os.Getenv("SMTP_PORT")
	mailUser := os.Getenv("SMTP_USER")
	mailPassword := os.Getenv("SMTP_PASSWORD")

	port, err := strconv.Atoi(mailPort)
	if err != nil {
		config.Logger.Error("Invalid SMTP_PORT value, defaulting to port 25",
			zap.String("provided_port", mailPort),
			zap.Error(err),
		)
		port = 25
	}

	mailer = gomail.NewDialer(mailHost, port, mailUser, mailPassword)
	config.Logger.Info("Mailer initialized successfully")
}

// SendEmail sends a plain-text email, optionally appending a download link
// for a generated report file.
func SendEmail(recipient, message, subject, downloadLink string) error {
	if mailer == nil {
		return fmt.Errorf("mailer not initialized")
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	body := message
	if downloadLink != "" {
		body = fmt.Sprintf("%s\n\nDownload the report here: %s", message, downloadLink)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", recipient, err)
	}

	config.Logger.Info("Email sent",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
	)
	return nil
}

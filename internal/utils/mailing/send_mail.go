package mailing

import (
	"GreenChoice-Backend/internal/utils"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type smtpConfig struct {
	Host       string
	Port       int
	SenderName string
	Email      string
	Password   string
}

func loadSMTPConfig() (smtpConfig, error) {
	port, err := strconv.Atoi(utils.GetConfig("SMTP_PORT"))
	if err != nil {
		return smtpConfig{}, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	return smtpConfig{
		Host:       utils.GetConfig("SMTP_HOST"),
		Port:       port,
		SenderName: utils.GetConfig("SMTP_SENDER_NAME"),
		Email:      utils.GetConfig("SMTP_AUTH_EMAIL"),
		Password:   utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}, nil
}

func SendMail(toEmail string, subject string, body string) error {
	cfg, err := loadSMTPConfig()
	if err != nil {
		return err
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", cfg.Email, cfg.SenderName)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password)
	return dialer.DialAndSend(mailer)
}

// SendResetPasswordMail delivers the password reset link. The link embeds a
// short-lived token, so the mail is only useful for about half an hour.
func SendResetPasswordMail(toEmail string, username string, resetLink string) error {
	body := fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>We received a request to reset your GreenChoice password. "+
			"Click <a href=\"%s\">here</a> to choose a new one.</p>"+
			"<p>The link expires in 30 minutes. If you did not ask for this, ignore this email.</p>",
		username, resetLink,
	)
	return SendMail(toEmail, "Reset your GreenChoice password", body)
}

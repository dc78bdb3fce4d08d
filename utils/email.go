package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// sendMail is swapped out in tests.
var sendMail = smtp.SendMail

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return sendMail(addr, auth, config.From, []string{to}, msg)
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return html.EscapeString(fields[0])
}

func OrderConfirmationBody(name, restaurant, orderNumber string, total decimal.Decimal, currency string) string {
	return fmt.Sprintf(`<h2>Order Received!</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> at %s has been placed successfully.</p>
<p>Order total: <strong>%s %s</strong></p>
<p>You can track it with your order number at any time.</p>`,
		firstName(name), html.EscapeString(orderNumber), html.EscapeString(restaurant), total.StringFixed(2), html.EscapeString(currency))
}

// SendOrderConfirmation mails the customer in the background. Failures are
// logged and never reach the caller.
func SendOrderConfirmation(log *zap.Logger, email, name, restaurant, orderNumber string, total decimal.Decimal, currency string) {
	if email == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("Order Received - %s", orderNumber)
		body := OrderConfirmationBody(name, restaurant, orderNumber, total, currency)
		if err := SendEmail(email, subject, body); err != nil {
			log.Warn("failed to send order confirmation",
				zap.String("order_number", orderNumber),
				zap.Error(err),
			)
		}
	}()
}

func SendOrderStatusUpdate(log *zap.Logger, email, name, orderNumber, status string) {
	if email == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("Order %s - Status Update", orderNumber)
		body := fmt.Sprintf(`<h2>Order Status Update</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> is now: <strong>%s</strong></p>`,
			firstName(name), html.EscapeString(orderNumber), html.EscapeString(strings.ReplaceAll(status, "_", " ")))
		if err := SendEmail(email, subject, body); err != nil {
			log.Warn("failed to send status update",
				zap.String("order_number", orderNumber),
				zap.Error(err),
			)
		}
	}()
}

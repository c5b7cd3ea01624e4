package utils

import (
	"fmt"
	"html"
	"log"

	"learnhub/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

// Mailer delivers one HTML email
type Mailer interface {
	Send(toEmail, toName, subject, htmlBody string) error
}

// DefaultMailer is used by every trigger below
var DefaultMailer Mailer = LogMailer{}

// InitMailer picks SendGrid when an API key is configured
func InitMailer() {
	cfg := config.AppConfig
	if cfg.SendGridAPIKey == "" {
		DefaultMailer = LogMailer{}
		return
	}
	DefaultMailer = NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSender, cfg.EmailSenderName)
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendGridMailer) Send(toEmail, toName, subject, htmlBody string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, toEmail), subject, htmlBody)
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded with status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs; used when no provider is configured
type LogMailer struct{}

func (LogMailer) Send(toEmail, _ string, subject, _ string) error {
	log.Printf("[MAILER] (log only) to=%s subject=%q", toEmail, subject)
	return nil
}

// SendEmail delivers synchronously through DefaultMailer
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if err := DefaultMailer.Send(toEmail, toName, subject, htmlBody); err != nil {
		log.Printf("[MAILER] failed to send %q to %s: %v", subject, toEmail, err)
		return err
	}
	return nil
}

func sendAsync(toEmail, toName, subject, htmlBody string) {
	go SendEmail(toEmail, toName, subject, htmlBody)
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6FA; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A6B; padding: 28px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 36px 30px; color: #1F2937; line-height: 1.6; }
			.footer { background-color: #F4F6FA; padding: 18px; text-align: center; font-size: 12px; color: #6B7280; }
			.info-box { background: #EEF4FF; padding: 15px; border-radius: 4px; border-left: 4px solid #3B82F6; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LEARNHUB</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You are receiving this email because you have a LearnHub account.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

func esc(s string) string { return html.EscapeString(s) }

// --- Triggers ---

func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "You're enrolled: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in <strong>%s</strong>. Your first lesson is waiting for you.</p>
	`, esc(name), esc(courseTitle))

	sendAsync(email, name, subject, getEmailTemplate("Welcome to your course", body))
}

func SendCertificateIssuedEmail(email, name, courseTitle, certificateNumber string) {
	subject := "Your certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
		<p>Anyone can verify it with this number.</p>
	`, esc(name), esc(courseTitle), esc(certificateNumber))

	sendAsync(email, name, subject, getEmailTemplate("Certificate Issued", body))
}

func SendPaymentReceiptEmail(email, name, courseTitle string, paymentID uint, original, discount, paid decimal.Decimal) {
	subject := "Receipt for " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for your purchase of <strong>%s</strong>.</p>
		<div class="info-box">
			Payment #%d<br>
			Price: %s<br>
			Discount: %s<br>
			<strong>Paid: %s</strong>
		</div>
	`, esc(name), esc(courseTitle), paymentID, original.StringFixed(2), discount.StringFixed(2), paid.StringFixed(2))

	sendAsync(email, name, subject, getEmailTemplate("Payment Received", body))
}

func SendRefundEmail(email, name, courseTitle string, amount decimal.Decimal, reason string) {
	subject := "Refund processed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We refunded <strong>%s</strong> to your wallet for <strong>%s</strong>.</p>
		<div class="info-box">Reason: %s</div>
	`, esc(name), amount.StringFixed(2), esc(courseTitle), esc(reason))

	sendAsync(email, name, subject, getEmailTemplate("Refund Processed", body))
}

func SendInactivityReminderEmail(email, name, courseTitle string, progress float64) {
	subject := "Pick up where you left off: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are <strong>%.0f%%</strong> through <strong>%s</strong>. A few minutes today keeps your streak going.</p>
	`, esc(name), progress, esc(courseTitle))

	sendAsync(email, name, subject, getEmailTemplate("We miss you", body))
}

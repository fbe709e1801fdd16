package email

import (
	"bytes"
	"fmt"
	"go-clubmatch-backend/config"
	"html/template"
	"net/smtp"
)

// EmailService sends transactional notifications via SMTP.
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// IsConfigured returns true when SMTP credentials are present.
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// InvoiceEmailData feeds the invoice-issued template.
type InvoiceEmailData struct {
	ClubName      string
	CandidateName string
	Amount        string
	InvoiceID     int64
}

// ReceiptEmailData feeds the membership receipt template.
type ReceiptEmailData struct {
	Name        string
	PlanType    string
	Price       string
	RenewalDate string
}

const invoiceEmailTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Placement Invoice</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0a7d36;">Placement fee invoice #{{.InvoiceID}}</h2>
    <p>Hello {{.ClubName}},</p>
    <p>Congratulations on hiring <strong>{{.CandidateName}}</strong>.</p>
    <p>A placement fee of <strong>{{.Amount}}</strong> is now due. Please note
    that new vacancies cannot be published while invoices remain unpaid.</p>
    <p>Thank you,<br/>The ClubMatch team</p>
  </div>
</body>
</html>`

const receiptEmailTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Membership Receipt</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0a7d36;">Your {{.PlanType}} membership is active</h2>
    <p>Hello {{.Name}},</p>
    <p>We received your payment of <strong>{{.Price}}</strong>.</p>
    <p>Your membership renews on <strong>{{.RenewalDate}}</strong>.</p>
    <p>Good luck out there,<br/>The ClubMatch team</p>
  </div>
</body>
</html>`

// SendInvoiceIssued notifies a club that a placement invoice was raised.
func (s *EmailService) SendInvoiceIssued(to string, data InvoiceEmailData) error {
	return s.send(to, fmt.Sprintf("Placement invoice #%d", data.InvoiceID), invoiceEmailTemplate, data)
}

// SendMembershipReceipt confirms a successful membership payment.
func (s *EmailService) SendMembershipReceipt(to string, data ReceiptEmailData) error {
	return s.send(to, "Your membership is active", receiptEmailTemplate, data)
}

func (s *EmailService) send(to, subject, tmpl string, data interface{}) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email service not configured")
	}

	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("execute email template: %w", err)
	}

	msg := []byte("From: " + s.fromEmail + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body.String())

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := s.host + ":" + s.port
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}

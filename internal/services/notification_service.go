// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/config"
	"github.com/openmerce/storefront/internal/models"
)

// NotificationService sends transactional email for customer and order
// events. With email disabled it logs instead of sending so the rest of the
// flow is unaffected.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: cfg,
	}
}

func (s *NotificationService) SendWelcomeEmail(customer *models.Customer, store *models.MerchantStore) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"FirstName": customer.FirstName,
		"StoreName": store.Name,
		"StoreURL":  s.config.Frontend.BaseURL,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, fmt.Sprintf("Welcome to %s", store.Name), body)
}

func (s *NotificationService) SendPasswordResetEmail(customer *models.Customer, resetToken string) error {
	tmpl := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"FirstName": customer.FirstName,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, "Password Reset Request", body)
}

func (s *NotificationService) SendOrderConfirmation(order *models.Order, customer *models.Customer) error {
	tmpl := s.getEmailTemplate("order_confirmation")

	data := map[string]interface{}{
		"FirstName":   customer.FirstName,
		"OrderNumber": order.OrderNumber,
		"Total":       fmt.Sprintf("%.2f %s", order.Total, order.Currency),
		"OrderURL":    fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.OrderNumber),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, "Order Confirmation - "+order.OrderNumber, body)
}

func (s *NotificationService) SendOrderStatusUpdate(order *models.Order, customer *models.Customer, status models.OrderStatus) error {
	tmpl := s.getEmailTemplate("order_status")

	data := map[string]interface{}{
		"FirstName":   customer.FirstName,
		"OrderNumber": order.OrderNumber,
		"Status":      string(status),
		"OrderURL":    fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.OrderNumber),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, fmt.Sprintf("Order %s is now %s", order.OrderNumber, status), body)
}

func (s *NotificationService) SendRefundNotification(order *models.Order, customer *models.Customer, amount float64, reason string) error {
	tmpl := s.getEmailTemplate("refund")

	data := map[string]interface{}{
		"FirstName":   customer.FirstName,
		"OrderNumber": order.OrderNumber,
		"Amount":      fmt.Sprintf("%.2f %s", amount, order.Currency),
		"Reason":      reason,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, "Refund Processed - "+order.OrderNumber, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if !s.config.Email.Enabled || s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email disabled, skipping send")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.FirstName}}!</h2>
	<p>Thank you for creating an account at {{.StoreName}}.</p>
	<a href="{{.StoreURL}}">Start shopping</a>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.FirstName}},</h2>
	<p>A password reset was requested for your account. The link expires in {{.ExpiresIn}}.</p>
	<a href="{{.ResetURL}}">Reset password</a>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
		},
		"order_confirmation": {
			Subject: "Order Confirmation",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.FirstName}}!</h2>
	<p>Order {{.OrderNumber}} has been received. Total: {{.Total}}.</p>
	<a href="{{.OrderURL}}">View order</a>
</body>
</html>`,
		},
		"order_status": {
			Subject: "Order Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.FirstName}},</h2>
	<p>Order {{.OrderNumber}} is now {{.Status}}.</p>
	<a href="{{.OrderURL}}">View order</a>
</body>
</html>`,
		},
		"refund": {
			Subject: "Refund Processed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.FirstName}},</h2>
	<p>A refund of {{.Amount}} for order {{.OrderNumber}} has been processed.</p>
	<p>Reason: {{.Reason}}</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}

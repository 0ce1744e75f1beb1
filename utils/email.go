package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"cosmetics-storefront/models"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Mailer is the part of the postmark client the storefront uses
type Mailer interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// EmailService handles sending emails using Postmark. A service without
// a mailer logs the messages instead of sending them.
type EmailService struct {
	mailer  Mailer
	sender  string
	baseURL string
}

// NewEmailService returns a Postmark backed service, or a log-only one
// when apiToken is empty
func NewEmailService(apiToken, sender, baseURL string) *EmailService {
	es := &EmailService{sender: sender, baseURL: baseURL}
	if apiToken != "" {
		es.mailer = postmark.NewClient(apiToken, "")
	} else {
		log.Warn().Msg("POSTMARK_API_TOKEN not set, emails will only be logged")
	}
	return es
}

func newEmailServiceWith(m Mailer, sender, baseURL string) *EmailService {
	return &EmailService{mailer: m, sender: sender, baseURL: baseURL}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.mailer == nil {
		log.Info().Str("to", toEmail).Str("subject", subject).Msg("email not sent, mailer disabled")
		return nil
	}
	_, err := es.mailer.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Debug().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	link := fmt.Sprintf("%s/verify?token=%s", es.baseURL, token)
	content := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		link,
	)
	return es.SendEmail(toEmail, "Verify Your Email", content)
}

// OrderPlaced sends the order confirmation. Orders without an email are skipped.
func (es *EmailService) OrderPlaced(_ context.Context, order models.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}
	return es.SendEmail(order.CustomerEmail, "Order Confirmation", orderConfirmation(order))
}

// OrderStatusChanged tells the customer about an admin status update
func (es *EmailService) OrderStatusChanged(order models.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}
	content := fmt.Sprintf(
		"Dear %s,<br><br>Your order (ID: %s) is now <strong>%s</strong>.",
		html.EscapeString(order.CustomerName), order.ID, order.Status,
	)
	return es.SendEmail(order.CustomerEmail, "Order Status Updated", content)
}

func orderConfirmation(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed.<br><br>",
		html.EscapeString(order.CustomerName), order.ID)
	b.WriteString("<ul>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s x %d: %s</li>", html.EscapeString(item.Name), item.Quantity,
			item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "Delivery: %s (%s)<br>", order.DeliveryMethod, html.EscapeString(order.DeliveryAddress))
	if order.Discount.IsPositive() {
		fmt.Fprintf(&b, "Loyalty discount: -%s<br>", order.Discount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total Amount: <strong>%s</strong><br>Payment Method: <strong>%s</strong><br>", order.Total.StringFixed(2), order.PaymentMethod)
	fmt.Fprintf(&b, "Points earned: %d<br><br>Thank you for shopping with us!", order.PointsEarned)
	return b.String()
}

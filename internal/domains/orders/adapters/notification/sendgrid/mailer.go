package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/pricing"
)

const senderName = "TÊTU"

var _ ports.Notifier = (*Mailer)(nil)

type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends order confirmation emails through SendGrid.
type Mailer struct {
	client sender
	from   string
}

// NewMailer builds a SendGrid client for apiKey. from is the confirmation sender address.
func NewMailer(apiKey, from string) (*Mailer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("from address is empty")
	}
	return &Mailer{client: sg.NewSendClient(apiKey), from: from}, nil
}

// OrderPlaced emails the customer a summary of the order.
func (m *Mailer) OrderPlaced(_ context.Context, event domain.OrderPlaced) error {
	if m == nil || m.client == nil {
		return errors.New("sendgrid mailer not configured")
	}
	if strings.TrimSpace(event.CustomerEmail) == "" {
		return errors.New("to address is empty")
	}
	subject, text := renderConfirmation(event)
	message := mail.NewSingleEmail(
		mail.NewEmail(senderName, m.from),
		subject,
		mail.NewEmail(event.CustomerName, event.CustomerEmail),
		text,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(text)),
	)
	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	return nil
}

func renderConfirmation(event domain.OrderPlaced) (string, string) {
	subject := fmt.Sprintf("Your TÊTU order %s", shortID(event.OrderID))
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order. We are getting it ready.\n\n", event.CustomerName)
	for _, line := range event.Lines {
		fmt.Fprintf(&b, "%d × %s (%s)  %s\n", line.Quantity, line.ProductName, line.Size, line.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", pricing.FormatEUR(event.Total))
	return subject, b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

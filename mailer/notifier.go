package mailer

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/config"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
)

// Compile-time check to ensure Notifier implements the Notifier interface
var _ interfaces.Notifier = (*Notifier)(nil)

// Notifier composes and sends the order confirmation email. It is meant to
// run as one retryable unit of work on the notification queue: any error
// surfaces to the queue runner, which owns the retry policy.
type Notifier struct {
	store    interfaces.Store
	sender   Sender
	from     string
	currency string
}

// NewNotifier creates a notifier with injected dependencies.
func NewNotifier(store interfaces.Store, sender Sender, cfg *config.Config) *Notifier {
	return &Notifier{
		store:    store,
		sender:   sender,
		from:     cfg.SMTP.From,
		currency: cfg.Payment.DefaultCurrency,
	}
}

// SendOrderConfirmation reloads the order graph from storage, composes the
// confirmation and hands it to the transport. A missing order fails hard:
// the error wraps storage.ErrNotFound and no message is sent.
func (n *Notifier) SendOrderConfirmation(ctx context.Context, orderID int64) error {
	order, err := n.store.GetOrder(ctx, orderID,
		interfaces.IncludeUser, interfaces.IncludePharmacy,
		interfaces.IncludeMedicines, interfaces.IncludePayments)
	if err != nil {
		return fmt.Errorf("failed to load order %d for confirmation: %w", orderID, err)
	}

	body, err := renderOrderConfirmation(order, n.currency)
	if err != nil {
		return fmt.Errorf("failed to render confirmation for order %d: %w", orderID, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", order.User.Email)
	m.SetHeader("Subject", OrderSubject(order))
	m.SetBody("text/html", body)

	if err := n.sender.Send(m); err != nil {
		return fmt.Errorf("failed to send confirmation for order %d: %w", orderID, err)
	}

	return nil
}

// OrderSubject builds the confirmation subject, preferring the human-facing
// order number over the numeric id.
func OrderSubject(o *entities.Order) string {
	ref := strconv.FormatInt(o.ID, 10)
	if o.OrderNumber != nil && *o.OrderNumber != "" {
		ref = *o.OrderNumber
	}
	return fmt.Sprintf("Your order #%s has been placed", ref)
}

// Package interfaces defines core abstractions for the Tadawi API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
)

// Include names a relation the caller wants eagerly loaded. The storage
// layer populates exactly the requested relations; everything else stays
// nil on the returned entity, which the resources package treats as
// "omit from the output".
type Include string

const (
	IncludeUser               Include = "user"
	IncludePharmacy           Include = "pharmacy"
	IncludeMedicines          Include = "medicines"
	IncludePrescriptions      Include = "prescriptions"
	IncludePayments           Include = "payments"
	IncludeActiveIngredient   Include = "active_ingredient"
	IncludeTherapeuticClasses Include = "therapeutic_classes"
	IncludeStockBatches       Include = "stock_batches"
	IncludeOrder              Include = "order"
)

// OrderLine is one medicine line of a new order.
type OrderLine struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int64 `json:"quantity"`
}

// Store defines the contract for entity loading and the few writes this
// service performs. Every Get method returns storage.ErrNotFound (checked
// via errors.Is) when the id does not exist.
type Store interface {
	GetOrder(ctx context.Context, id int64, includes ...Include) (*entities.Order, error)
	ListOrders(ctx context.Context, includes ...Include) ([]entities.Order, error)
	CreateOrder(ctx context.Context, order *entities.Order, lines []OrderLine) (*entities.Order, error)

	GetDonation(ctx context.Context, id int64, includes ...Include) (*entities.Donation, error)
	ListDonations(ctx context.Context, includes ...Include) ([]entities.Donation, error)

	GetMedicine(ctx context.Context, id int64, includes ...Include) (*entities.Medicine, error)
	ListMedicines(ctx context.Context, includes ...Include) ([]entities.Medicine, error)

	GetPrescription(ctx context.Context, id int64, includes ...Include) (*entities.Prescription, error)

	CleanupExpiredCarts(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Notifier composes and sends transactional notifications for an order.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, orderID int64) error
}

// NotificationQueue accepts notification work for asynchronous delivery.
// Enqueueing never blocks order placement; retry policy belongs to the
// queue's runner, not the caller.
type NotificationQueue interface {
	EnqueueOrderConfirmation(orderID int64)
}

// Validator defines the contract for validating user-supplied input on the
// HTTP and CLI surfaces.
type Validator interface {
	// ValidateIncludes checks ?include= values against the allowed set
	// for a resource and converts them to typed includes.
	ValidateIncludes(raw string, allowed []Include) ([]Include, error)

	// ValidateID parses and checks a positive numeric id.
	ValidateID(input string) (int64, error)

	// ValidateEmail checks an email address for the diagnostic command.
	ValidateEmail(input string) error
}

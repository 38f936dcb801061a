// Package entities defines the persistent domain model for the Tadawi pharmacy API.
//
// Relation fields carry the db:"-" tag and are populated only when the caller asked
// the storage layer to load them: a nil pointer or nil slice means "not loaded", a
// non-nil (possibly empty) value means "loaded". The resources package keys all
// conditional output on this distinction.
package entities

import "time"

// User is an account that places orders and registers donations.
type User struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Pharmacy is a verified dispensing location run by a user.
type Pharmacy struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"user_id"`
	Location    string `db:"location" json:"location"`
	ContactInfo string `db:"contact_info" json:"contact_info"`
	Verified    bool   `db:"verified" json:"verified"`
}

// ActiveIngredient is the pharmacological substance of a medicine.
type ActiveIngredient struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TherapeuticClass groups medicines by therapeutic use.
type TherapeuticClass struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// MedicineClass is a TherapeuticClass joined through the
// medicine_therapeutic_class pivot; Note lives on the pivot row.
type MedicineClass struct {
	TherapeuticClass
	Note *string `db:"note" json:"note,omitempty"`
}

// StockBatch is one physical batch of a medicine held by a pharmacy.
type StockBatch struct {
	ID         int64  `db:"id" json:"id"`
	MedicineID int64  `db:"medicine_id" json:"medicine_id"`
	PharmacyID int64  `db:"pharmacy_id" json:"pharmacy_id"`
	BatchNum   string `db:"batch_num" json:"batch_num"`
	ExpDate    string `db:"exp_date" json:"exp_date"`
	Quantity   int64  `db:"quantity" json:"quantity"`
}

// Medicine is a sellable drug product.
type Medicine struct {
	ID                 int64   `db:"id" json:"id"`
	ActiveIngredientID int64   `db:"active_ingredient_id" json:"active_ingredient_id"`
	BrandName          string  `db:"brand_name" json:"brand_name"`
	Form               string  `db:"form" json:"form"`
	DosageStrength     string  `db:"dosage_strength" json:"dosage_strength"`
	Manufacturer       string  `db:"manufacturer" json:"manufacturer"`
	Price              float64 `db:"price" json:"price"`

	ActiveIngredient   *ActiveIngredient `db:"-" json:"active_ingredient,omitempty"`
	TherapeuticClasses []MedicineClass   `db:"-" json:"therapeutic_classes,omitempty"`
	StockBatches       []StockBatch      `db:"-" json:"stock_batches,omitempty"`
}

// OrderMedicine is a Medicine joined through the order_medicine pivot;
// Quantity is the per-line quantity on the pivot row, not a medicine field.
type OrderMedicine struct {
	Medicine
	Quantity int64 `db:"quantity" json:"quantity"`
}

// DonationMedicine is a Medicine joined through the donation_medicine pivot.
// Quantity, ExpiryDate and BatchNum all live on the pivot row.
type DonationMedicine struct {
	Medicine
	Quantity   int64  `db:"quantity" json:"quantity"`
	ExpiryDate string `db:"expiry_date" json:"expiry_date"`
	BatchNum   string `db:"batch_num" json:"batch_num"`
}

// Donation is a batch of medicines offered by a donor.
type Donation struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	DonorName   *string   `db:"donor_name" json:"donor_name"`
	Location    string    `db:"location" json:"location"`
	ContactInfo string    `db:"contact_info" json:"contact_info"`
	Verified    bool      `db:"verified" json:"verified"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	User      *User              `db:"-" json:"user,omitempty"`
	Medicines []DonationMedicine `db:"-" json:"medicines,omitempty"`
}

// Payment is one payment attempt against an order.
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	OrderID       int64     `db:"order_id" json:"order_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	Method        string    `db:"method" json:"method"`
	Status        string    `db:"status" json:"status"`
	TransactionID *string   `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Prescription is an uploaded prescription image attached to an order.
type Prescription struct {
	ID                int64     `db:"id" json:"id"`
	OrderID           int64     `db:"order_id" json:"order_id"`
	UserID            *int64    `db:"user_id" json:"user_id"`
	PatientName       *string   `db:"patient_name" json:"patient_name"`
	FilePath          string    `db:"file_path" json:"file_path"`
	OcrText           *string   `db:"ocr_text" json:"ocr_text"`
	ValidatedByDoctor bool      `db:"validated_by_doctor" json:"validated_by_doctor"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`

	Order *Order `db:"-" json:"order,omitempty"`
}

// Order is a customer order against a pharmacy.
type Order struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	PharmacyID       int64     `db:"pharmacy_id" json:"pharmacy_id"`
	OrderNumber      *string   `db:"order_number" json:"order_number"`
	PatientName      *string   `db:"patient_name" json:"patient_name"`
	PharmacyLocation *string   `db:"pharmacy_location" json:"pharmacy_location"`
	Status           string    `db:"status" json:"status"`
	PaymentMethod    string    `db:"payment_method" json:"payment_method"`
	BillingAddress   string    `db:"billing_address" json:"billing_address"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	User                *User           `db:"-" json:"user,omitempty"`
	Pharmacy            *Pharmacy       `db:"-" json:"pharmacy,omitempty"`
	Medicines           []OrderMedicine `db:"-" json:"medicines,omitempty"`
	PrescriptionUploads []Prescription  `db:"-" json:"prescription_uploads,omitempty"`
	Payments            []Payment       `db:"-" json:"payments,omitempty"`
}

// LatestPayment returns the most recent payment, relying on the storage layer
// loading payments newest-first. Nil when none were loaded or none exist.
func (o *Order) LatestPayment() *Payment {
	if len(o.Payments) == 0 {
		return nil
	}
	return &o.Payments[0]
}

// CartSession tracks an open cart for expiry-based cleanup.
type CartSession struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

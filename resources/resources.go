// Package resources flattens domain entities into the client-facing JSON
// representations served by the HTTP API and embedded in notification emails.
//
// Every mapper is a pure, synchronous transform: it never touches storage and
// never mutates its input. A relation-derived field appears in the output only
// when the caller loaded that relation (non-nil on the entity); an unloaded
// relation is omitted entirely rather than rendered as null. Slice-valued
// relation fields use *[]T so that "loaded but empty" still serializes as [].
package resources

import (
	"time"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
)

// UserSummary is the nested user representation embedded by order and
// donation resources.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PharmacySummary is the nested pharmacy representation embedded by orders.
type PharmacySummary struct {
	ID          int64  `json:"id"`
	Location    string `json:"location"`
	ContactInfo string `json:"contact_info"`
	Verified    bool   `json:"verified"`
}

// ActiveIngredientSummary is the nested ingredient embedded by medicines.
type ActiveIngredientSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TherapeuticClassEntry carries the class plus the note from the pivot row.
type TherapeuticClassEntry struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Note *string `json:"note,omitempty"`
}

// StockBatchEntry is one stock batch in a medicine's batch list.
type StockBatchEntry struct {
	ID         int64  `json:"id"`
	BatchNum   string `json:"batch_num"`
	ExpDate    string `json:"exp_date"`
	Quantity   int64  `json:"quantity"`
	PharmacyID int64  `json:"pharmacy_id"`
}

// OrderedMedicineEntry is one line of an order's medicine list; quantity
// comes from the order_medicine pivot row.
type OrderedMedicineEntry struct {
	ID             int64   `json:"id"`
	BrandName      string  `json:"brand_name"`
	Form           string  `json:"form"`
	DosageStrength string  `json:"dosage_strength"`
	Manufacturer   string  `json:"manufacturer"`
	Price          float64 `json:"price"`
	Quantity       int64   `json:"quantity"`
}

// DonatedMedicineEntry is one line of a donation's medicine list; quantity,
// expiry_date and batch_num come from the donation_medicine pivot row.
type DonatedMedicineEntry struct {
	ID             int64   `json:"id"`
	BrandName      string  `json:"brand_name"`
	Form           string  `json:"form"`
	DosageStrength string  `json:"dosage_strength"`
	Manufacturer   string  `json:"manufacturer"`
	Price          float64 `json:"price"`
	Quantity       int64   `json:"quantity"`
	ExpiryDate     string  `json:"expiry_date"`
	BatchNum       string  `json:"batch_num"`
}

// OrderSummary is the nested order embedded by prescription resources.
type OrderSummary struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	UserID int64  `json:"user_id"`
}

// DonationResource is the client-facing shape of a donation.
type DonationResource struct {
	ID          int64                   `json:"id"`
	UserID      int64                   `json:"user_id"`
	DonorName   *string                 `json:"donor_name"`
	Location    string                  `json:"location"`
	ContactInfo string                  `json:"contact_info"`
	Verified    bool                    `json:"verified"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	User        *UserSummary            `json:"user,omitempty"`
	Medicines   *[]DonatedMedicineEntry `json:"medicines,omitempty"`
}

// MedicineResource is the client-facing shape of a medicine.
type MedicineResource struct {
	ID                 int64                    `json:"id"`
	BrandName          string                   `json:"brand_name"`
	Form               string                   `json:"form"`
	DosageStrength     string                   `json:"dosage_strength"`
	Manufacturer       string                   `json:"manufacturer"`
	Price              float64                  `json:"price"`
	TotalQuantity      *int64                   `json:"total_quantity,omitempty"`
	StockBatches       *[]StockBatchEntry       `json:"stock_batches,omitempty"`
	ActiveIngredient   *ActiveIngredientSummary `json:"active_ingredient,omitempty"`
	TherapeuticClasses *[]TherapeuticClassEntry `json:"therapeutic_classes,omitempty"`
}

// OrderResource is the client-facing shape of an order.
type OrderResource struct {
	ID                  int64                   `json:"id"`
	UserID              int64                   `json:"user_id"`
	PharmacyID          int64                   `json:"pharmacy_id"`
	OrderNumber         *string                 `json:"order_number"`
	PatientName         *string                 `json:"patient_name"`
	PharmacyLocation    *string                 `json:"pharmacy_location"`
	Status              string                  `json:"status"`
	PaymentMethod       string                  `json:"payment_method"`
	BillingAddress      string                  `json:"billing_address"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	User                *UserSummary            `json:"user,omitempty"`
	Pharmacy            *PharmacySummary        `json:"pharmacy,omitempty"`
	Medicines           *[]OrderedMedicineEntry `json:"medicines,omitempty"`
	PrescriptionUploads *[]PrescriptionResource `json:"prescription_uploads,omitempty"`
	Payments            *[]PaymentEntry         `json:"payments,omitempty"`
}

// PaymentEntry is one payment attempt on an order, newest first.
type PaymentEntry struct {
	ID            int64     `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID *string   `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// PrescriptionResource is the client-facing shape of a prescription upload.
type PrescriptionResource struct {
	ID                int64         `json:"id"`
	OrderID           int64         `json:"order_id"`
	UserID            *int64        `json:"user_id"`
	PatientName       *string       `json:"patient_name"`
	FilePath          string        `json:"file_path"`
	OcrText           *string       `json:"ocr_text"`
	ValidatedByDoctor bool          `json:"validated_by_doctor"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	Order             *OrderSummary `json:"order,omitempty"`
}

// NewDonation maps a donation and whatever relations the caller loaded.
func NewDonation(d *entities.Donation) DonationResource {
	res := DonationResource{
		ID:          d.ID,
		UserID:      d.UserID,
		DonorName:   d.DonorName,
		Location:    d.Location,
		ContactInfo: d.ContactInfo,
		Verified:    d.Verified,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	if res.DonorName == nil && d.User != nil {
		res.DonorName = &d.User.Name
	}

	if d.User != nil {
		res.User = newUserSummary(d.User)
	}

	if d.Medicines != nil {
		medicines := make([]DonatedMedicineEntry, 0, len(d.Medicines))
		for i := range d.Medicines {
			m := &d.Medicines[i]
			medicines = append(medicines, DonatedMedicineEntry{
				ID:             m.ID,
				BrandName:      m.BrandName,
				Form:           m.Form,
				DosageStrength: m.DosageStrength,
				Manufacturer:   m.Manufacturer,
				Price:          m.Price,
				Quantity:       m.Quantity,
				ExpiryDate:     m.ExpiryDate,
				BatchNum:       m.BatchNum,
			})
		}
		res.Medicines = &medicines
	}

	return res
}

// NewMedicine maps a medicine and whatever relations the caller loaded.
// total_quantity is emitted whenever stock batches were loaded, even when the
// loaded list is empty (total 0), and omitted when they were not.
func NewMedicine(m *entities.Medicine) MedicineResource {
	res := MedicineResource{
		ID:             m.ID,
		BrandName:      m.BrandName,
		Form:           m.Form,
		DosageStrength: m.DosageStrength,
		Manufacturer:   m.Manufacturer,
		Price:          m.Price,
	}

	if m.StockBatches != nil {
		var total int64
		batches := make([]StockBatchEntry, 0, len(m.StockBatches))
		for i := range m.StockBatches {
			b := &m.StockBatches[i]
			total += b.Quantity
			batches = append(batches, StockBatchEntry{
				ID:         b.ID,
				BatchNum:   b.BatchNum,
				ExpDate:    b.ExpDate,
				Quantity:   b.Quantity,
				PharmacyID: b.PharmacyID,
			})
		}
		res.TotalQuantity = &total
		res.StockBatches = &batches
	}

	if m.ActiveIngredient != nil {
		res.ActiveIngredient = &ActiveIngredientSummary{
			ID:   m.ActiveIngredient.ID,
			Name: m.ActiveIngredient.Name,
		}
	}

	if m.TherapeuticClasses != nil {
		classes := make([]TherapeuticClassEntry, 0, len(m.TherapeuticClasses))
		for i := range m.TherapeuticClasses {
			c := &m.TherapeuticClasses[i]
			classes = append(classes, TherapeuticClassEntry{
				ID:   c.ID,
				Name: c.Name,
				Note: c.Note,
			})
		}
		res.TherapeuticClasses = &classes
	}

	return res
}

// NewOrder maps an order and whatever relations the caller loaded.
func NewOrder(o *entities.Order) OrderResource {
	res := OrderResource{
		ID:               o.ID,
		UserID:           o.UserID,
		PharmacyID:       o.PharmacyID,
		OrderNumber:      o.OrderNumber,
		PatientName:      o.PatientName,
		PharmacyLocation: o.PharmacyLocation,
		Status:           o.Status,
		PaymentMethod:    o.PaymentMethod,
		BillingAddress:   o.BillingAddress,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}

	// Fallback chains: the denormalized column wins, then the related
	// entity's field when that relation is loaded, then null.
	if res.PatientName == nil && o.User != nil {
		res.PatientName = &o.User.Name
	}
	if res.PharmacyLocation == nil && o.Pharmacy != nil {
		res.PharmacyLocation = &o.Pharmacy.Location
	}

	if o.User != nil {
		res.User = newUserSummary(o.User)
	}

	if o.Pharmacy != nil {
		res.Pharmacy = &PharmacySummary{
			ID:          o.Pharmacy.ID,
			Location:    o.Pharmacy.Location,
			ContactInfo: o.Pharmacy.ContactInfo,
			Verified:    o.Pharmacy.Verified,
		}
	}

	if o.Medicines != nil {
		medicines := make([]OrderedMedicineEntry, 0, len(o.Medicines))
		for i := range o.Medicines {
			m := &o.Medicines[i]
			medicines = append(medicines, OrderedMedicineEntry{
				ID:             m.ID,
				BrandName:      m.BrandName,
				Form:           m.Form,
				DosageStrength: m.DosageStrength,
				Manufacturer:   m.Manufacturer,
				Price:          m.Price,
				Quantity:       m.Quantity,
			})
		}
		res.Medicines = &medicines
	}

	if o.PrescriptionUploads != nil {
		uploads := make([]PrescriptionResource, 0, len(o.PrescriptionUploads))
		for i := range o.PrescriptionUploads {
			uploads = append(uploads, NewPrescription(&o.PrescriptionUploads[i]))
		}
		res.PrescriptionUploads = &uploads
	}

	if o.Payments != nil {
		payments := make([]PaymentEntry, 0, len(o.Payments))
		for i := range o.Payments {
			p := &o.Payments[i]
			payments = append(payments, PaymentEntry{
				ID:            p.ID,
				Amount:        p.Amount,
				Currency:      p.Currency,
				Method:        p.Method,
				Status:        p.Status,
				TransactionID: p.TransactionID,
				CreatedAt:     p.CreatedAt,
			})
		}
		res.Payments = &payments
	}

	return res
}

// NewPrescription maps a prescription upload. user_id falls back to the
// parent order's user id and patient_name to the order's user name, both
// only reachable when the relevant relations were loaded.
func NewPrescription(p *entities.Prescription) PrescriptionResource {
	res := PrescriptionResource{
		ID:                p.ID,
		OrderID:           p.OrderID,
		UserID:            p.UserID,
		PatientName:       p.PatientName,
		FilePath:          p.FilePath,
		OcrText:           p.OcrText,
		ValidatedByDoctor: p.ValidatedByDoctor,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	if p.Order != nil {
		if res.UserID == nil {
			res.UserID = &p.Order.UserID
		}
		if res.PatientName == nil && p.Order.User != nil {
			res.PatientName = &p.Order.User.Name
		}
		res.Order = &OrderSummary{
			ID:     p.Order.ID,
			Status: p.Order.Status,
			UserID: p.Order.UserID,
		}
	}

	return res
}

func newUserSummary(u *entities.User) *UserSummary {
	return &UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

package resources

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
)

func strPtr(s string) *string { return &s }

func testMedicine(id int64, brand string) entities.Medicine {
	return entities.Medicine{
		ID:                 id,
		ActiveIngredientID: 1,
		BrandName:          brand,
		Form:               "tablet",
		DosageStrength:     "500mg",
		Manufacturer:       "Pharco",
		Price:              19.5,
	}
}

// marshalToMap renders a resource to its JSON key set so tests can assert
// field presence and absence exactly as a client would see it.
func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal resource: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Failed to unmarshal resource: %v", err)
	}
	return m
}

func TestDonationDonorNameFallback(t *testing.T) {
	tests := []struct {
		name      string
		donorName *string
		user      *entities.User
		expected  *string
	}{
		{
			name:      "own value wins over user name",
			donorName: strPtr("Anonymous"),
			user:      &entities.User{ID: 3, Name: "Alice", Email: "alice@example.com"},
			expected:  strPtr("Anonymous"),
		},
		{
			name:      "falls back to user name",
			donorName: nil,
			user:      &entities.User{ID: 3, Name: "Alice", Email: "alice@example.com"},
			expected:  strPtr("Alice"),
		},
		{
			name:      "absent when nothing to fall back to",
			donorName: nil,
			user:      nil,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := entities.Donation{ID: 1, UserID: 3, DonorName: tt.donorName, User: tt.user}
			res := NewDonation(&d)

			switch {
			case tt.expected == nil && res.DonorName != nil:
				t.Errorf("Expected nil donor_name, got %q", *res.DonorName)
			case tt.expected != nil && res.DonorName == nil:
				t.Errorf("Expected donor_name %q, got nil", *tt.expected)
			case tt.expected != nil && *res.DonorName != *tt.expected:
				t.Errorf("Expected donor_name %q, got %q", *tt.expected, *res.DonorName)
			}
		})
	}
}

func TestDonationRelationOmission(t *testing.T) {
	d := entities.Donation{ID: 1, UserID: 3, Location: "Cairo"}

	m := marshalToMap(t, NewDonation(&d))

	if _, ok := m["user"]; ok {
		t.Error("user should be omitted when the relation was not loaded")
	}
	if _, ok := m["medicines"]; ok {
		t.Error("medicines should be omitted when the relation was not loaded")
	}
	// Fallback fields stay present as null, relation embeds do not.
	if v, ok := m["donor_name"]; !ok || v != nil {
		t.Errorf("donor_name should be present and null, got %v (present=%v)", v, ok)
	}
}

func TestDonationPivotFields(t *testing.T) {
	d := entities.Donation{
		ID:     1,
		UserID: 3,
		Medicines: []entities.DonationMedicine{
			{Medicine: testMedicine(10, "Panadol"), Quantity: 4, ExpiryDate: "2027-01-31", BatchNum: "B-100"},
			{Medicine: testMedicine(11, "Brufen"), Quantity: 9, ExpiryDate: "2026-06-30", BatchNum: "B-200"},
		},
	}

	res := NewDonation(&d)
	if res.Medicines == nil {
		t.Fatal("medicines should be present when the relation was loaded")
	}

	got := *res.Medicines
	if len(got) != 2 {
		t.Fatalf("Expected 2 medicines, got %d", len(got))
	}
	if got[0].Quantity != 4 || got[0].ExpiryDate != "2027-01-31" || got[0].BatchNum != "B-100" {
		t.Errorf("Pivot fields not read from the join record: %+v", got[0])
	}
	if got[1].Quantity != 9 {
		t.Errorf("Expected quantity 9 on second line, got %d", got[1].Quantity)
	}
}

func TestMedicineTotalQuantity(t *testing.T) {
	tests := []struct {
		name          string
		batches       []entities.StockBatch
		expectedTotal int64
	}{
		{
			name: "sums loaded batches",
			batches: []entities.StockBatch{
				{ID: 1, BatchNum: "A", Quantity: 12, PharmacyID: 5},
				{ID: 2, BatchNum: "B", Quantity: 30, PharmacyID: 5},
				{ID: 3, BatchNum: "C", Quantity: 8, PharmacyID: 6},
			},
			expectedTotal: 50,
		},
		{
			name:          "zero batches loaded yields explicit zero",
			batches:       []entities.StockBatch{},
			expectedTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := testMedicine(10, "Panadol")
			med.StockBatches = tt.batches

			res := NewMedicine(&med)
			if res.TotalQuantity == nil {
				t.Fatal("total_quantity should be present when stock batches were loaded")
			}
			if *res.TotalQuantity != tt.expectedTotal {
				t.Errorf("Expected total_quantity %d, got %d", tt.expectedTotal, *res.TotalQuantity)
			}
			if res.StockBatches == nil {
				t.Fatal("stock_batches should be present when the relation was loaded")
			}
			if len(*res.StockBatches) != len(tt.batches) {
				t.Errorf("Expected %d batches, got %d", len(tt.batches), len(*res.StockBatches))
			}
		})
	}
}

func TestMedicineUnloadedRelationsOmitted(t *testing.T) {
	med := testMedicine(10, "Panadol")

	m := marshalToMap(t, NewMedicine(&med))

	for _, key := range []string{"total_quantity", "stock_batches", "active_ingredient", "therapeutic_classes"} {
		if _, ok := m[key]; ok {
			t.Errorf("%s should be omitted when the relation was not loaded", key)
		}
	}
}

func TestMedicineLoadedEmptyBatchesSerializeAsEmptyList(t *testing.T) {
	med := testMedicine(10, "Panadol")
	med.StockBatches = []entities.StockBatch{}

	m := marshalToMap(t, NewMedicine(&med))

	batches, ok := m["stock_batches"]
	if !ok {
		t.Fatal("stock_batches should be present when loaded empty")
	}
	if list, ok := batches.([]any); !ok || len(list) != 0 {
		t.Errorf("Expected empty list, got %v", batches)
	}
	if total, ok := m["total_quantity"]; !ok || total != float64(0) {
		t.Errorf("Expected total_quantity 0, got %v (present=%v)", total, ok)
	}
}

func TestMedicineTherapeuticClassNote(t *testing.T) {
	med := testMedicine(10, "Panadol")
	med.TherapeuticClasses = []entities.MedicineClass{
		{TherapeuticClass: entities.TherapeuticClass{ID: 1, Name: "Analgesic"}, Note: strPtr("first-line")},
		{TherapeuticClass: entities.TherapeuticClass{ID: 2, Name: "Antipyretic"}},
	}

	res := NewMedicine(&med)
	classes := *res.TherapeuticClasses
	if classes[0].Note == nil || *classes[0].Note != "first-line" {
		t.Errorf("Expected note from the pivot row, got %v", classes[0].Note)
	}
	if classes[1].Note != nil {
		t.Errorf("Expected absent note, got %q", *classes[1].Note)
	}

	// The note is omitted from JSON when absent, not rendered as null.
	m := marshalToMap(t, res)
	list := m["therapeutic_classes"].([]any)
	second := list[1].(map[string]any)
	if _, ok := second["note"]; ok {
		t.Error("note should be omitted when the pivot row has none")
	}
}

func TestOrderFallbacks(t *testing.T) {
	user := &entities.User{ID: 3, Name: "Bob", Email: "bob@example.com"}
	pharmacy := &entities.Pharmacy{ID: 7, Location: "Giza", ContactInfo: "0100", Verified: true}

	tests := []struct {
		name             string
		order            entities.Order
		expectedPatient  *string
		expectedLocation *string
	}{
		{
			name: "denormalized columns win",
			order: entities.Order{
				PatientName:      strPtr("Carol"),
				PharmacyLocation: strPtr("Alexandria"),
				User:             user,
				Pharmacy:         pharmacy,
			},
			expectedPatient:  strPtr("Carol"),
			expectedLocation: strPtr("Alexandria"),
		},
		{
			name:             "falls back to loaded relations",
			order:            entities.Order{User: user, Pharmacy: pharmacy},
			expectedPatient:  strPtr("Bob"),
			expectedLocation: strPtr("Giza"),
		},
		{
			name:             "absent when relations not loaded",
			order:            entities.Order{},
			expectedPatient:  nil,
			expectedLocation: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewOrder(&tt.order)

			if !equalStrPtr(res.PatientName, tt.expectedPatient) {
				t.Errorf("patient_name: expected %v, got %v", deref(tt.expectedPatient), deref(res.PatientName))
			}
			if !equalStrPtr(res.PharmacyLocation, tt.expectedLocation) {
				t.Errorf("pharmacy_location: expected %v, got %v", deref(tt.expectedLocation), deref(res.PharmacyLocation))
			}
		})
	}
}

func TestOrderPivotQuantityPerLine(t *testing.T) {
	// Two lines for the same brand must keep their own pivot quantities.
	o := entities.Order{
		ID: 1,
		Medicines: []entities.OrderMedicine{
			{Medicine: testMedicine(10, "Panadol"), Quantity: 1},
			{Medicine: testMedicine(11, "Panadol"), Quantity: 3},
		},
	}

	res := NewOrder(&o)
	got := *res.Medicines
	if got[0].Quantity == got[1].Quantity {
		t.Errorf("Expected distinct pivot quantities, got %d and %d", got[0].Quantity, got[1].Quantity)
	}
	if got[0].Quantity != 1 || got[1].Quantity != 3 {
		t.Errorf("Quantities read from wrong rows: %d, %d", got[0].Quantity, got[1].Quantity)
	}
}

func TestOrderPaymentsKeepStorageOrder(t *testing.T) {
	o := entities.Order{
		ID: 1,
		Payments: []entities.Payment{
			{ID: 9, OrderID: 1, Amount: 25, Currency: "USD", Method: "paypal", Status: "completed"},
			{ID: 8, OrderID: 1, Amount: 25, Currency: "USD", Method: "paypal", Status: "failed"},
		},
	}

	res := NewOrder(&o)
	if res.Payments == nil {
		t.Fatal("payments should be present when loaded")
	}
	got := *res.Payments
	if len(got) != 2 || got[0].ID != 9 || got[1].ID != 8 {
		t.Errorf("Payments should keep the newest-first storage order, got %+v", got)
	}

	bare := NewOrder(&entities.Order{ID: 2})
	if _, ok := marshalToMap(t, bare)["payments"]; ok {
		t.Error("Unloaded payments should be omitted")
	}
}

func TestOrderEmbedsPrescriptionResources(t *testing.T) {
	o := entities.Order{
		ID:     42,
		UserID: 3,
		PrescriptionUploads: []entities.Prescription{
			{ID: 1, OrderID: 42, FilePath: "uploads/rx-1.jpg", ValidatedByDoctor: true},
		},
	}

	res := NewOrder(&o)
	if res.PrescriptionUploads == nil {
		t.Fatal("prescription_uploads should be present when loaded")
	}
	uploads := *res.PrescriptionUploads
	if len(uploads) != 1 || uploads[0].FilePath != "uploads/rx-1.jpg" || !uploads[0].ValidatedByDoctor {
		t.Errorf("Unexpected prescription representation: %+v", uploads[0])
	}
}

func TestPrescriptionFallbacks(t *testing.T) {
	order := &entities.Order{
		ID:     42,
		UserID: 3,
		Status: "placed",
		User:   &entities.User{ID: 3, Name: "Dina", Email: "dina@example.com"},
	}

	p := entities.Prescription{ID: 1, OrderID: 42, FilePath: "uploads/rx-1.jpg", Order: order}

	res := NewPrescription(&p)
	if res.UserID == nil || *res.UserID != 3 {
		t.Errorf("Expected user_id fallback to order.user_id, got %v", res.UserID)
	}
	if res.PatientName == nil || *res.PatientName != "Dina" {
		t.Errorf("Expected patient_name fallback to order user name, got %v", res.PatientName)
	}
	if res.Order == nil || res.Order.ID != 42 || res.Order.Status != "placed" || res.Order.UserID != 3 {
		t.Errorf("Unexpected order summary: %+v", res.Order)
	}
}

func TestPrescriptionWithoutOrderLoaded(t *testing.T) {
	p := entities.Prescription{ID: 1, OrderID: 42, FilePath: "uploads/rx-1.jpg"}

	m := marshalToMap(t, NewPrescription(&p))

	if _, ok := m["order"]; ok {
		t.Error("order should be omitted when not loaded")
	}
	if v, ok := m["user_id"]; !ok || v != nil {
		t.Errorf("user_id should be present and null, got %v (present=%v)", v, ok)
	}
}

func TestMappingIsDeterministic(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	o := entities.Order{
		ID:        1,
		UserID:    3,
		CreatedAt: now,
		UpdatedAt: now,
		User:      &entities.User{ID: 3, Name: "Bob", Email: "bob@example.com"},
		Medicines: []entities.OrderMedicine{
			{Medicine: testMedicine(10, "Panadol"), Quantity: 2},
		},
	}

	first := NewOrder(&o)
	second := NewOrder(&o)
	if !reflect.DeepEqual(first, second) {
		t.Error("Mapping the same input twice should yield identical output")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Serialized output differs:\n%s\n%s", a, b)
	}
}

func TestMappingDoesNotMutateInput(t *testing.T) {
	o := entities.Order{ID: 1, UserID: 3, User: &entities.User{ID: 3, Name: "Bob"}}
	before := o

	_ = NewOrder(&o)

	if o.PatientName != nil {
		t.Error("Mapper must not write fallback values back onto the entity")
	}
	if !reflect.DeepEqual(before, o) {
		t.Error("Mapper must not mutate its input")
	}
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

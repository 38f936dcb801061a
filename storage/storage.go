// Package storage loads and persists domain entities over SQLite via sqlx.
//
// Relation loading is strictly caller-driven: each Get/List method populates
// only the relations named in its include arguments and leaves the rest nil,
// so the resources layer can distinguish "not loaded" from "loaded empty".
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Store implements interfaces.Store on top of a SQLite database.
type Store struct {
	db *sqlx.DB
}

// Compile-time check to ensure Store implements the Store interface
var _ interfaces.Store = (*Store)(nil)

// Open connects to the database, applies the schema and returns a Store.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStore wraps an existing connection; the caller is responsible for the
// schema. Used by tests.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for seeding and diagnostics.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func hasInclude(includes []interfaces.Include, want interfaces.Include) bool {
	for _, inc := range includes {
		if inc == want {
			return true
		}
	}
	return false
}

// GetOrder loads one order plus the requested relations.
func (s *Store) GetOrder(ctx context.Context, id int64, includes ...interfaces.Include) (*entities.Order, error) {
	var o entities.Order
	err := s.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}

	if err := s.loadOrderRelations(ctx, &o, includes); err != nil {
		return nil, err
	}

	return &o, nil
}

// ListOrders loads all orders newest-first plus the requested relations.
func (s *Store) ListOrders(ctx context.Context, includes ...interfaces.Include) ([]entities.Order, error) {
	orders := make([]entities.Order, 0)
	if err := s.db.SelectContext(ctx, &orders, `SELECT * FROM orders ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i := range orders {
		if err := s.loadOrderRelations(ctx, &orders[i], includes); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (s *Store) loadOrderRelations(ctx context.Context, o *entities.Order, includes []interfaces.Include) error {
	if hasInclude(includes, interfaces.IncludeUser) {
		user, err := s.getUser(ctx, o.UserID)
		if err != nil {
			return err
		}
		o.User = user
	}

	if hasInclude(includes, interfaces.IncludePharmacy) {
		var p entities.Pharmacy
		if err := s.db.GetContext(ctx, &p, `SELECT * FROM pharmacies WHERE id = ?`, o.PharmacyID); err != nil {
			return fmt.Errorf("failed to load pharmacy for order %d: %w", o.ID, err)
		}
		o.Pharmacy = &p
	}

	if hasInclude(includes, interfaces.IncludeMedicines) {
		medicines := make([]entities.OrderMedicine, 0)
		err := s.db.SelectContext(ctx, &medicines, `
			SELECT m.*, om.quantity FROM order_medicine om
			    JOIN medicines m ON m.id = om.medicine_id
			WHERE om.order_id = ?
			ORDER BY m.id`, o.ID)
		if err != nil {
			return fmt.Errorf("failed to load medicines for order %d: %w", o.ID, err)
		}
		o.Medicines = medicines
	}

	if hasInclude(includes, interfaces.IncludePrescriptions) {
		uploads := make([]entities.Prescription, 0)
		err := s.db.SelectContext(ctx, &uploads, `
			SELECT * FROM prescriptions WHERE order_id = ? ORDER BY id`, o.ID)
		if err != nil {
			return fmt.Errorf("failed to load prescriptions for order %d: %w", o.ID, err)
		}
		o.PrescriptionUploads = uploads
	}

	if hasInclude(includes, interfaces.IncludePayments) {
		payments := make([]entities.Payment, 0)
		err := s.db.SelectContext(ctx, &payments, `
			SELECT * FROM payments WHERE order_id = ?
			ORDER BY created_at DESC, id DESC`, o.ID)
		if err != nil {
			return fmt.Errorf("failed to load payments for order %d: %w", o.ID, err)
		}
		o.Payments = payments
	}

	return nil
}

// CreateOrder inserts the order and its medicine lines in one transaction and
// returns the stored order with its medicine list loaded.
func (s *Store) CreateOrder(ctx context.Context, order *entities.Order, lines []interfaces.OrderLine) (*entities.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, pharmacy_id, order_number, patient_name, pharmacy_location,
		                    status, payment_method, billing_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, order.PharmacyID, order.OrderNumber, order.PatientName, order.PharmacyLocation,
		order.Status, order.PaymentMethod, order.BillingAddress, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read order id: %w", err)
	}

	for _, line := range lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_medicine (order_id, medicine_id, quantity)
			VALUES (?, ?, ?)`, orderID, line.MedicineID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line for medicine %d: %w", line.MedicineID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return s.GetOrder(ctx, orderID, interfaces.IncludeMedicines)
}

// GetDonation loads one donation plus the requested relations.
func (s *Store) GetDonation(ctx context.Context, id int64, includes ...interfaces.Include) (*entities.Donation, error) {
	var d entities.Donation
	err := s.db.GetContext(ctx, &d, `SELECT * FROM donations WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("donation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load donation %d: %w", id, err)
	}

	if err := s.loadDonationRelations(ctx, &d, includes); err != nil {
		return nil, err
	}

	return &d, nil
}

// ListDonations loads all donations newest-first plus the requested relations.
func (s *Store) ListDonations(ctx context.Context, includes ...interfaces.Include) ([]entities.Donation, error) {
	donations := make([]entities.Donation, 0)
	if err := s.db.SelectContext(ctx, &donations, `SELECT * FROM donations ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	for i := range donations {
		if err := s.loadDonationRelations(ctx, &donations[i], includes); err != nil {
			return nil, err
		}
	}

	return donations, nil
}

func (s *Store) loadDonationRelations(ctx context.Context, d *entities.Donation, includes []interfaces.Include) error {
	if hasInclude(includes, interfaces.IncludeUser) {
		user, err := s.getUser(ctx, d.UserID)
		if err != nil {
			return err
		}
		d.User = user
	}

	if hasInclude(includes, interfaces.IncludeMedicines) {
		medicines := make([]entities.DonationMedicine, 0)
		err := s.db.SelectContext(ctx, &medicines, `
			SELECT m.*, dm.quantity, dm.expiry_date, dm.batch_num FROM donation_medicine dm
			    JOIN medicines m ON m.id = dm.medicine_id
			WHERE dm.donation_id = ?
			ORDER BY m.id`, d.ID)
		if err != nil {
			return fmt.Errorf("failed to load medicines for donation %d: %w", d.ID, err)
		}
		d.Medicines = medicines
	}

	return nil
}

// GetMedicine loads one medicine plus the requested relations.
func (s *Store) GetMedicine(ctx context.Context, id int64, includes ...interfaces.Include) (*entities.Medicine, error) {
	var m entities.Medicine
	err := s.db.GetContext(ctx, &m, `SELECT * FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("medicine %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load medicine %d: %w", id, err)
	}

	if err := s.loadMedicineRelations(ctx, &m, includes); err != nil {
		return nil, err
	}

	return &m, nil
}

// ListMedicines loads all medicines plus the requested relations.
func (s *Store) ListMedicines(ctx context.Context, includes ...interfaces.Include) ([]entities.Medicine, error) {
	medicines := make([]entities.Medicine, 0)
	if err := s.db.SelectContext(ctx, &medicines, `SELECT * FROM medicines ORDER BY brand_name, id`); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	for i := range medicines {
		if err := s.loadMedicineRelations(ctx, &medicines[i], includes); err != nil {
			return nil, err
		}
	}

	return medicines, nil
}

func (s *Store) loadMedicineRelations(ctx context.Context, m *entities.Medicine, includes []interfaces.Include) error {
	if hasInclude(includes, interfaces.IncludeActiveIngredient) {
		var ai entities.ActiveIngredient
		if err := s.db.GetContext(ctx, &ai, `SELECT * FROM active_ingredients WHERE id = ?`, m.ActiveIngredientID); err != nil {
			return fmt.Errorf("failed to load active ingredient for medicine %d: %w", m.ID, err)
		}
		m.ActiveIngredient = &ai
	}

	if hasInclude(includes, interfaces.IncludeTherapeuticClasses) {
		classes := make([]entities.MedicineClass, 0)
		err := s.db.SelectContext(ctx, &classes, `
			SELECT tc.id, tc.name, mtc.note FROM medicine_therapeutic_class mtc
			    JOIN therapeutic_classes tc ON tc.id = mtc.therapeutic_class_id
			WHERE mtc.medicine_id = ?
			ORDER BY tc.id`, m.ID)
		if err != nil {
			return fmt.Errorf("failed to load therapeutic classes for medicine %d: %w", m.ID, err)
		}
		m.TherapeuticClasses = classes
	}

	if hasInclude(includes, interfaces.IncludeStockBatches) {
		batches := make([]entities.StockBatch, 0)
		err := s.db.SelectContext(ctx, &batches, `
			SELECT * FROM stock_batches WHERE medicine_id = ? ORDER BY id`, m.ID)
		if err != nil {
			return fmt.Errorf("failed to load stock batches for medicine %d: %w", m.ID, err)
		}
		m.StockBatches = batches
	}

	return nil
}

// GetPrescription loads one prescription. IncludeOrder loads the parent order
// together with its user so the patient-name fallback chain can resolve.
func (s *Store) GetPrescription(ctx context.Context, id int64, includes ...interfaces.Include) (*entities.Prescription, error) {
	var p entities.Prescription
	err := s.db.GetContext(ctx, &p, `SELECT * FROM prescriptions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prescription %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prescription %d: %w", id, err)
	}

	if hasInclude(includes, interfaces.IncludeOrder) {
		order, err := s.GetOrder(ctx, p.OrderID, interfaces.IncludeUser)
		if err != nil {
			return nil, fmt.Errorf("failed to load order for prescription %d: %w", id, err)
		}
		p.Order = order
	}

	return &p, nil
}

// CleanupExpiredCarts deletes cart sessions idle for longer than olderThan
// and reports how many were removed.
func (s *Store) CleanupExpiredCarts(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	res, err := s.db.ExecContext(ctx, `DELETE FROM cart_sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up cart sessions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleaned up cart sessions: %w", err)
	}

	return deleted, nil
}

func (s *Store) getUser(ctx context.Context, id int64) (*entities.User, error) {
	var u entities.User
	if err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &u, nil
}

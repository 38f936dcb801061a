package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrate creates the database schema. Statements are idempotent so startup
// can run them unconditionally.
func migrate(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS pharmacies (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            location TEXT NOT NULL,
            contact_info TEXT NOT NULL DEFAULT '',
            verified INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY(user_id) REFERENCES users(id)
        );`,
		`CREATE TABLE IF NOT EXISTS active_ingredients (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS therapeutic_classes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            active_ingredient_id INTEGER NOT NULL,
            brand_name TEXT NOT NULL,
            form TEXT NOT NULL DEFAULT '',
            dosage_strength TEXT NOT NULL DEFAULT '',
            manufacturer TEXT NOT NULL DEFAULT '',
            price REAL NOT NULL DEFAULT 0,
            FOREIGN KEY(active_ingredient_id) REFERENCES active_ingredients(id)
        );`,
		`CREATE TABLE IF NOT EXISTS medicine_therapeutic_class (
            medicine_id INTEGER NOT NULL,
            therapeutic_class_id INTEGER NOT NULL,
            note TEXT,
            PRIMARY KEY(medicine_id, therapeutic_class_id),
            FOREIGN KEY(medicine_id) REFERENCES medicines(id),
            FOREIGN KEY(therapeutic_class_id) REFERENCES therapeutic_classes(id)
        );`,
		`CREATE TABLE IF NOT EXISTS stock_batches (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER NOT NULL,
            pharmacy_id INTEGER NOT NULL,
            batch_num TEXT NOT NULL,
            exp_date TEXT NOT NULL,
            quantity INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY(medicine_id) REFERENCES medicines(id),
            FOREIGN KEY(pharmacy_id) REFERENCES pharmacies(id)
        );`,
		`CREATE TABLE IF NOT EXISTS donations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            donor_name TEXT,
            location TEXT NOT NULL DEFAULT '',
            contact_info TEXT NOT NULL DEFAULT '',
            verified INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(user_id) REFERENCES users(id)
        );`,
		`CREATE TABLE IF NOT EXISTS donation_medicine (
            donation_id INTEGER NOT NULL,
            medicine_id INTEGER NOT NULL,
            quantity INTEGER NOT NULL DEFAULT 1,
            expiry_date TEXT NOT NULL DEFAULT '',
            batch_num TEXT NOT NULL DEFAULT '',
            PRIMARY KEY(donation_id, medicine_id),
            FOREIGN KEY(donation_id) REFERENCES donations(id),
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
		`CREATE TABLE IF NOT EXISTS orders (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            pharmacy_id INTEGER NOT NULL,
            order_number TEXT,
            patient_name TEXT,
            pharmacy_location TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_method TEXT NOT NULL DEFAULT 'cash_on_delivery',
            billing_address TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(user_id) REFERENCES users(id),
            FOREIGN KEY(pharmacy_id) REFERENCES pharmacies(id)
        );`,
		`CREATE TABLE IF NOT EXISTS order_medicine (
            order_id INTEGER NOT NULL,
            medicine_id INTEGER NOT NULL,
            quantity INTEGER NOT NULL DEFAULT 1,
            PRIMARY KEY(order_id, medicine_id),
            FOREIGN KEY(order_id) REFERENCES orders(id),
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
		`CREATE TABLE IF NOT EXISTS prescriptions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            order_id INTEGER NOT NULL,
            user_id INTEGER,
            patient_name TEXT,
            file_path TEXT NOT NULL,
            ocr_text TEXT,
            validated_by_doctor INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(order_id) REFERENCES orders(id),
            FOREIGN KEY(user_id) REFERENCES users(id)
        );`,
		`CREATE TABLE IF NOT EXISTS payments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            order_id INTEGER NOT NULL,
            amount REAL NOT NULL DEFAULT 0,
            currency TEXT NOT NULL DEFAULT 'USD',
            method TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            transaction_id TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(order_id) REFERENCES orders(id)
        );`,
		`CREATE TABLE IF NOT EXISTS cart_sessions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(user_id) REFERENCES users(id)
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}

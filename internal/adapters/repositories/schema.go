package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the Postgres schema used by the engine.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			customer_name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			total_weight DOUBLE PRECISION NOT NULL CHECK (total_weight >= 0),
			drums INTEGER NOT NULL DEFAULT 0,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			location_group TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'unassigned',
			assigned_vehicle_id TEXT,
			assigned_driver_id TEXT,
			scheduled_date DATE,
			delivery_sequence INTEGER,
			priority INTEGER NOT NULL DEFAULT 0,
			destination_group TEXT,
			needs_location BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			registration_number TEXT NOT NULL,
			load_capacity DOUBLE PRECISION NOT NULL,
			restrictions TEXT,
			vehicle_type TEXT NOT NULL DEFAULT 'rigid',
			pair_group_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			surname TEXT NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			license_code TEXT NOT NULL,
			last_lat DOUBLE PRECISION,
			last_lon DOUBLE PRECISION
		);`,
		`CREATE TABLE IF NOT EXISTS vehicle_routes (
			vehicle_id TEXT NOT NULL,
			scheduled_date DATE NOT NULL,
			route_geometry TEXT,
			distance DOUBLE PRECISION NOT NULL DEFAULT 0,
			duration DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (vehicle_id, scheduled_date)
		);`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			region TEXT NOT NULL DEFAULT ''
		);`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}

type seedFile struct {
	Orders []struct {
		ID           string   `json:"id"`
		CustomerName string   `json:"customer_name"`
		Address      string   `json:"address"`
		TotalWeight  float64  `json:"total_weight"`
		Drums        int      `json:"drums"`
		Lat          *float64 `json:"lat"`
		Lon          *float64 `json:"lon"`
		Zone         string   `json:"location_group"`
	} `json:"orders"`
	Vehicles []struct {
		ID           string  `json:"id"`
		Registration string  `json:"registration_number"`
		LoadCapacity float64 `json:"load_capacity"`
		Restrictions string  `json:"restrictions"`
		VehicleType  string  `json:"vehicle_type"`
		PairGroupID  string  `json:"pair_group_id"`
	} `json:"vehicles"`
	Drivers []struct {
		ID          string `json:"id"`
		FirstName   string `json:"first_name"`
		Surname     string `json:"surname"`
		Available   bool   `json:"available"`
		LicenseCode string `json:"license_code"`
	} `json:"drivers"`
}

// SeedFromJSON loads demo orders, vehicles and drivers for local runs.
// Existing rows are left untouched.
func SeedFromJSON(db *sql.DB, path string) error {
	if db == nil {
		return errors.New("seed: DB is nil")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", path, err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed: parse %q: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range seed.Orders {
		_, err := tx.Exec(`
		INSERT INTO orders (id, customer_name, address, total_weight, drums, lat, lon, location_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
		`, o.ID, o.CustomerName, o.Address, o.TotalWeight, o.Drums, o.Lat, o.Lon, o.Zone)
		if err != nil {
			return fmt.Errorf("seed: insert order %q: %w", o.ID, err)
		}
	}

	for _, v := range seed.Vehicles {
		_, err := tx.Exec(`
		INSERT INTO vehicles (id, registration_number, load_capacity, restrictions, vehicle_type, pair_group_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		ON CONFLICT (id) DO NOTHING;
		`, v.ID, v.Registration, v.LoadCapacity, v.Restrictions, v.VehicleType, v.PairGroupID)
		if err != nil {
			return fmt.Errorf("seed: insert vehicle %q: %w", v.ID, err)
		}
	}

	for _, d := range seed.Drivers {
		_, err := tx.Exec(`
		INSERT INTO drivers (id, first_name, surname, available, license_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING;
		`, d.ID, d.FirstName, d.Surname, d.Available, d.LicenseCode)
		if err != nil {
			return fmt.Errorf("seed: insert driver %q: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}

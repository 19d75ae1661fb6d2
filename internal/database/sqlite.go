package database

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"tzbundle/internal/database/migrations"
	"tzbundle/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteWriter serializes a bundle into a normalized SQLite database with
// zones, transitions, aliases, rules and windows_mapping tables, plus a
// bundle_info row identifying the build.
type SQLiteWriter struct {
	db   *sql.DB
	path string
}

// NewSQLiteWriter opens (or creates) the database at path and brings its
// schema up to date.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating bundle database: %w", err)
	}

	return &SQLiteWriter{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// WriteBundle inserts the entire bundle in a single transaction. Zone and
// rule-set names are written in sorted order so repeated builds of the
// same release produce identical databases.
func (w *SQLiteWriter) WriteBundle(b *model.Bundle, buildID string, builtAt time.Time) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertZones(tx, b.Zones); err != nil {
		return err
	}
	if err := insertRules(tx, b.Rules); err != nil {
		return err
	}
	if err := insertWindowsMapping(tx, b.Windows); err != nil {
		return err
	}

	_, err = tx.Exec("INSERT INTO bundle_info (build_id, version, built_at) VALUES (?, ?, ?)",
		buildID, b.Version, builtAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting bundle info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertZones(tx *sql.Tx, zones map[string]*model.Zone) error {
	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		zone := zones[name]
		_, err := tx.Exec("INSERT INTO zones (name, country_code, latitude, longitude, comment) VALUES (?, ?, ?, ?, ?)",
			zone.Name, zone.CountryCode, zone.Latitude, zone.Longitude, zone.Comment)
		if err != nil {
			return fmt.Errorf("inserting zone %s: %w", zone.Name, err)
		}

		for seq, t := range zone.Transitions {
			// The rule column is NULL for periods without DST.
			var rule sql.NullString
			if t.Rule != "" {
				rule = sql.NullString{String: t.Rule, Valid: true}
			}
			_, err := tx.Exec("INSERT INTO transitions (zone_name, seq, until_utc, utc_offset, abbr, rule_name) VALUES (?, ?, ?, ?, ?, ?)",
				zone.Name, seq, t.Until, t.Offset, t.Abbr, rule)
			if err != nil {
				return fmt.Errorf("inserting transition %d of %s: %w", seq, zone.Name, err)
			}
		}

		for _, alias := range zone.Aliases {
			_, err := tx.Exec("INSERT INTO aliases (zone_name, alias) VALUES (?, ?)",
				zone.Name, alias)
			if err != nil {
				return fmt.Errorf("inserting alias %s of %s: %w", alias, zone.Name, err)
			}
		}
	}
	return nil
}

func insertRules(tx *sql.Tx, rules map[string][]model.Rule) error {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for seq, r := range rules[name] {
			_, err := tx.Exec("INSERT INTO rules (rule_name, seq, from_year, to_year, type, in_month, on_day, at_time, save, letter) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				name, seq, r.From, r.To, r.Type, r.In, r.On, r.At, r.Save, r.Letter)
			if err != nil {
				return fmt.Errorf("inserting rule %d of %s: %w", seq, name, err)
			}
		}
	}
	return nil
}

func insertWindowsMapping(tx *sql.Tx, mapping *model.WindowsMapping) error {
	if mapping == nil {
		return nil
	}
	names := make([]string, 0, len(mapping.WindowsToIANA))
	for name := range mapping.WindowsToIANA {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, ianaName := range mapping.WindowsToIANA[name] {
			_, err := tx.Exec("INSERT INTO windows_mapping (windows_name, iana_name) VALUES (?, ?)",
				name, ianaName)
			if err != nil {
				return fmt.Errorf("inserting windows mapping %s: %w", name, err)
			}
		}
	}
	return nil
}

// Path returns the database file path.
func (w *SQLiteWriter) Path() string {
	return w.path
}

// Close closes the database connection.
func (w *SQLiteWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order. Databases written by
// the pre-versioning application already hold members, relations, mirrors
// and users tables, so early migrations tolerate existing tables.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_members_and_relations",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "rebuild_mirrors_with_row_numbers",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_roles_and_event_logs",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "unique_ongoing_relations",
		Up:      migrationV4,
	},
}

// LatestVersion returns the highest known migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations executes all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}
	return Migrate(db)
}

// Migrate applies pending migrations to db, each in its own transaction.
func Migrate(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

// migrationV1 creates the member and relation tables. Legacy databases
// already have compatible tables, so only missing objects are created.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			family_id INTEGER,
			alias TEXT,
			email TEXT,
			url TEXT,
			born TEXT NOT NULL DEFAULT '0000-01-01',
			died TEXT,
			sex TEXT CHECK(sex IN ('M', 'F')),
			gen_order INTEGER NOT NULL DEFAULT 0,
			dad_id INTEGER,
			mom_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (dad_id) REFERENCES members(id),
			FOREIGN KEY (mom_id) REFERENCES members(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create members table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS relations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			member_id INTEGER NOT NULL,
			partner_id INTEGER NOT NULL,
			relation TEXT NOT NULL,
			join_date TEXT NOT NULL DEFAULT '0000-01-01',
			end_date TEXT,
			original_name TEXT,
			original_family_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(member_id != partner_id),
			FOREIGN KEY (member_id) REFERENCES members(id),
			FOREIGN KEY (partner_id) REFERENCES members(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create relations table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_members_name ON members(name);
		CREATE INDEX IF NOT EXISTS idx_members_natural_key ON members(name, born, gen_order);
		CREATE INDEX IF NOT EXISTS idx_members_generation ON members(gen_order, born);
		CREATE INDEX IF NOT EXISTS idx_members_family ON members(family_id);
		CREATE INDEX IF NOT EXISTS idx_members_email ON members(email);
		CREATE INDEX IF NOT EXISTS idx_members_dad ON members(dad_id);
		CREATE INDEX IF NOT EXISTS idx_members_mom ON members(mom_id);
		CREATE INDEX IF NOT EXISTS idx_relations_member ON relations(member_id);
		CREATE INDEX IF NOT EXISTS idx_relations_partner ON relations(partner_id);
		CREATE INDEX IF NOT EXISTS idx_relations_relation ON relations(relation);
	`)
	if err != nil {
		return fmt.Errorf("failed to create member and relation indexes: %w", err)
	}

	return nil
}

// migrationV2 replaces the legacy mirrors table (capitalized columns, no
// row numbers) with the staging layout. Mirrors only live for one import,
// so nothing is carried over.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		DROP TABLE IF EXISTS mirrors;
		CREATE TABLE mirrors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			row_number INTEGER NOT NULL,
			name TEXT NOT NULL,
			aka TEXT,
			sex INTEGER,
			born TEXT DEFAULT '0000-01-01',
			died TEXT DEFAULT '0000-01-01',
			dad TEXT,
			mom TEXT,
			relation INTEGER DEFAULT 0,
			spouse TEXT,
			married TEXT DEFAULT '0000-01-01',
			gen_order INTEGER DEFAULT 0,
			href TEXT,
			status INTEGER DEFAULT 0
		);
		CREATE INDEX idx_mirrors_name ON mirrors(name);
		CREATE INDEX idx_mirrors_order ON mirrors(gen_order);
	`)
	if err != nil {
		return fmt.Errorf("failed to rebuild mirrors table: %w", err)
	}
	return nil
}

// migrationV3 adds account roles and the event log. Legacy users tables
// carry an is_admin flag, which becomes role 1 (family admin).
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 0 CHECK(is_active IN (-1, 0, 1)),
			family_id INTEGER,
			member_id INTEGER,
			password_hash TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (member_id) REFERENCES members(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	hasRole, err := columnExists(tx, "users", "role")
	if err != nil {
		return err
	}
	if !hasRole {
		if _, err := tx.Exec(`ALTER TABLE users ADD COLUMN role INTEGER NOT NULL DEFAULT 0 CHECK(role IN (0, 1, 2))`); err != nil {
			return fmt.Errorf("failed to add role column: %w", err)
		}
		hasAdmin, err := columnExists(tx, "users", "is_admin")
		if err != nil {
			return err
		}
		if hasAdmin {
			if _, err := tx.Exec(`UPDATE users SET role = 1 WHERE is_admin = 1`); err != nil {
				return fmt.Errorf("failed to carry over admin flags: %w", err)
			}
		}
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS event_logs (
			id TEXT PRIMARY KEY,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			actor_id TEXT,
			run_id TEXT,
			event TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_event_logs_entity ON event_logs(entity_type, entity_id);
		CREATE INDEX IF NOT EXISTS idx_event_logs_run ON event_logs(run_id);
		CREATE INDEX IF NOT EXISTS idx_event_logs_timestamp ON event_logs(timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create event_logs table: %w", err)
	}

	return nil
}

// migrationV4 stores every ongoing relation with a NULL end date and lets
// the store reject a second ongoing row for the same triple.
func migrationV4(tx *sql.Tx) error {
	_, err := tx.Exec(`UPDATE relations SET end_date = NULL WHERE end_date IN ('', '0000-00-00')`)
	if err != nil {
		return fmt.Errorf("failed to normalize open end dates: %w", err)
	}

	_, err = tx.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_relations_ongoing
			ON relations(member_id, partner_id, relation) WHERE end_date IS NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to create ongoing relation index (duplicate ongoing relations must be ended first): %w", err)
	}
	return nil
}

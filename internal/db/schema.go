// Package db owns the SQLite schema and its versioned migrations.
package db

// SchemaSQL is the complete schema for fresh kin installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(), so a repository that references a column
// missing here fails its tests with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Members (people in the tree)
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
);

CREATE INDEX IF NOT EXISTS idx_members_name ON members(name);
CREATE INDEX IF NOT EXISTS idx_members_natural_key ON members(name, born, gen_order);
CREATE INDEX IF NOT EXISTS idx_members_generation ON members(gen_order, born);
CREATE INDEX IF NOT EXISTS idx_members_family ON members(family_id);
CREATE INDEX IF NOT EXISTS idx_members_email ON members(email);
CREATE INDEX IF NOT EXISTS idx_members_dad ON members(dad_id);
CREATE INDEX IF NOT EXISTS idx_members_mom ON members(mom_id);

-- Relations (append-only ledger: member has partner as relation)
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
);

CREATE INDEX IF NOT EXISTS idx_relations_member ON relations(member_id);
CREATE INDEX IF NOT EXISTS idx_relations_partner ON relations(partner_id);
CREATE INDEX IF NOT EXISTS idx_relations_relation ON relations(relation);
CREATE UNIQUE INDEX IF NOT EXISTS idx_relations_ongoing
	ON relations(member_id, partner_id, relation) WHERE end_date IS NULL;

-- Mirrors (transient staging of legacy rows during an import)
CREATE TABLE IF NOT EXISTS mirrors (
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

CREATE INDEX IF NOT EXISTS idx_mirrors_name ON mirrors(name);
CREATE INDEX IF NOT EXISTS idx_mirrors_order ON mirrors(gen_order);

-- Users (accounts; is_active -1 inactive, 0 pending, 1 active)
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 0 CHECK(is_active IN (-1, 0, 1)),
	role INTEGER NOT NULL DEFAULT 0 CHECK(role IN (0, 1, 2)),
	family_id INTEGER,
	member_id INTEGER,
	password_hash TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (member_id) REFERENCES members(id)
);

-- Event log (audit trail of life events and imports)
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
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations()
	}

	// A members table without schema_version predates versioning: migrate it.
	var memberTables int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='members'").Scan(&memberTables)
	if err != nil {
		return err
	}
	if memberTables > 0 {
		return RunMigrations()
	}

	// Completely fresh install - create the schema directly and mark every
	// migration as applied.
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

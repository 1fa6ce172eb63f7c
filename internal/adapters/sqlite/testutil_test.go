// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements in test files;
// use setupTestDB() and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	"github.com/example/kin/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// db.Open pins in-memory databases to one connection, so transactions and
// plain queries see the same data.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedMember inserts a member and returns its ID.
func seedMember(t *testing.T, conn *sql.DB, name, born string, gen int) int64 {
	t.Helper()
	if born == "" {
		born = "0000-01-01"
	}
	result, err := conn.Exec("INSERT INTO members (name, born, gen_order) VALUES (?, ?, ?)", name, born, gen)
	if err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedRelation inserts an ongoing relation and returns its ID.
func seedRelation(t *testing.T, conn *sql.DB, memberID, partnerID int64, relation, join string) int64 {
	t.Helper()
	if join == "" {
		join = "0000-01-01"
	}
	result, err := conn.Exec(
		"INSERT INTO relations (member_id, partner_id, relation, join_date) VALUES (?, ?, ?, ?)",
		memberID, partnerID, relation, join)
	if err != nil {
		t.Fatalf("failed to seed relation: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// setupFamilyDB returns a database loaded with the three-generation fixture
// family: Carl(1)+Dana(2) -> Bob(3); Bob(3)+Erin(4) -> Fay(5).
func setupFamilyDB(t *testing.T) *sql.DB {
	t.Helper()
	conn := setupTestDB(t)
	if err := db.SeedFixtures(conn); err != nil {
		t.Fatalf("failed to seed fixtures: %v", err)
	}
	return conn
}

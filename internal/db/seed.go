package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with a small three-generation family
// for development and demos: two founders, their son, his wife and their
// daughter.
func SeedFixtures(database *sql.DB) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	members := []struct {
		name, born, sex string
		gen             int
		dad, mom        any
	}{
		{"Carl", "1920-03-04", "M", 1, nil, nil},
		{"Dana", "1922-07-19", "F", 1, nil, nil},
		{"Bob", "1950-01-01", "M", 2, 1, 2},
		{"Erin", "1952-02-02", "F", 2, nil, nil},
		{"Fay", "1978-08-08", "F", 3, 3, 4},
	}
	for _, m := range members {
		if _, err := tx.Exec(
			"INSERT INTO members (name, born, sex, gen_order, dad_id, mom_id) VALUES (?, ?, ?, ?, ?, ?)",
			m.name, m.born, m.sex, m.gen, m.dad, m.mom,
		); err != nil {
			return fmt.Errorf("seed members: %w", err)
		}
	}

	relations := []struct {
		member, partner int
		relation, join  string
	}{
		{1, 2, "spouse", "1945-05-01"},
		{3, 1, "parent", "1950-01-01"},
		{3, 2, "parent", "1950-01-01"},
		{3, 4, "spouse", "1975-06-01"},
		{5, 3, "parent", "1978-08-08"},
		{5, 4, "parent", "1978-08-08"},
	}
	for _, r := range relations {
		if _, err := tx.Exec(
			"INSERT INTO relations (member_id, partner_id, relation, join_date) VALUES (?, ?, ?, ?)",
			r.member, r.partner, r.relation, r.join,
		); err != nil {
			return fmt.Errorf("seed relations: %w", err)
		}
	}

	return tx.Commit()
}

// Package dbtest creates throw-away SQLite stores for tests.
package dbtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"db-diff/internal/dialect"

	"github.com/brianvoe/gofakeit/v6"
)

// Open creates a file backed SQLite database in a temp directory and runs
// the given statements on it. The database is closed when the test ends.
func Open(t *testing.T, name string, statements ...string) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), name+".db")
	db, err := sql.Open(dialect.SQLiteDriverName, path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	t.Cleanup(func() { db.Close() })

	Exec(t, db, statements...)
	return db
}

func Exec(t *testing.T, db *sql.DB, statements ...string) {
	t.Helper()

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to execute %q: %v", stmt, err)
		}
	}
}

// Person is a fake row for the people fixture table.
type Person struct {
	ID     int
	Name   string
	Email  string
	Age    int
	Active bool
	Born   string // YYYY-MM-DD
}

// PeopleDDL creates a table exercising every column category.
const PeopleDDL = `CREATE TABLE people (
	id INTEGER NOT NULL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(200),
	age INTEGER,
	active BOOLEAN NOT NULL,
	born DATE
)`

// FakePeople generates n deterministic rows; equal seeds give equal rows.
func FakePeople(seed int64, n int) []Person {
	f := gofakeit.New(seed)
	people := make([]Person, 0, n)
	for i := 1; i <= n; i++ {
		people = append(people, Person{
			ID:     i,
			Name:   f.Name(),
			Email:  f.Email(),
			Age:    f.Number(18, 90),
			Active: f.Bool(),
			Born:   f.Date().Format("2006-01-02"),
		})
	}
	return people
}

// InsertPeople writes rows into the people table.
func InsertPeople(t *testing.T, db *sql.DB, people []Person) {
	t.Helper()

	for _, p := range people {
		_, err := db.Exec("INSERT INTO people (id, name, email, age, active, born) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.Name, p.Email, p.Age, p.Active, p.Born)
		if err != nil {
			t.Fatalf("failed to insert person %d: %v", p.ID, err)
		}
	}
}

// Count returns SELECT COUNT(*) for the given table and predicate.
func Count(t *testing.T, db *sql.DB, table, where string) int {
	t.Helper()

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

package migrate

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return db
}

func TestRun_CreatesSchema(t *testing.T) {
	db := openTestDB(t)

	if err := Run(db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The photos table is usable after migration.
	if _, err := db.Exec(
		`INSERT INTO photos (taken_at, filename, content_hash) VALUES (?, ?, ?)`,
		"2025-03-09T14:30:05Z", "20250309_143005_deadbeef.jpg", "deadbeef",
	); err != nil {
		t.Fatalf("insert into photos: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count == 0 {
		t.Error("no migrations recorded in schema_migrations")
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := Run(db); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	var first int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&first); err != nil {
		t.Fatalf("count after first run: %v", err)
	}

	if err := Run(db); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	var second int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&second); err != nil {
		t.Fatalf("count after second run: %v", err)
	}

	if first != second {
		t.Errorf("migration count changed on rerun: %d then %d", first, second)
	}
}

func Test_parseMigrationFilename(t *testing.T) {
	cases := []struct {
		in          string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{"0001_photos.sql", "0001", "photos", true},
		{"0012_add_index.sql", "0012", "add_index", true},
		{"001_short.sql", "", "", false},
		{"0001_photos.txt", "", "", false},
		{"notes.md", "", "", false},
	}
	for _, tc := range cases {
		version, name, ok := parseMigrationFilename(tc.in)
		if ok != tc.wantOK || version != tc.wantVersion || name != tc.wantName {
			t.Errorf("parseMigrationFilename(%q) = (%q, %q, %v); want (%q, %q, %v)",
				tc.in, version, name, ok, tc.wantVersion, tc.wantName, tc.wantOK)
		}
	}
}

package db

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestOpenIsInMemory(t *testing.T) {
	d1 := openTestDB(t)
	d2 := openTestDB(t)

	if _, err := d1.Exec(`INSERT INTO brands (name, category) VALUES ('Oreo', 'Galletas')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	if err := d2.QueryRow(`SELECT COUNT(*) FROM brands`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("second database sees %d brands, want 0", n)
	}
}

func TestSingleConnectionSharesData(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.Exec(`INSERT INTO chains (name, store_count) VALUES ('Mercadona', 1636)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// A second statement must hit the same connection, or the table would be empty.
	var count int
	if err := d.QueryRow(`SELECT store_count FROM chains WHERE name = 'Mercadona'`).Scan(&count); err != nil {
		t.Fatalf("select: %v", err)
	}
	if count != 1636 {
		t.Errorf("store_count = %d, want 1636", count)
	}
}

func TestForeignKeys(t *testing.T) {
	d := openTestDB(t)

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "brands table exists",
			table: "brands",
			cols:  []string{"id", "name", "category", "created_at"},
		},
		{
			name:  "chains table exists",
			table: "chains",
			cols:  []string{"id", "name", "store_count", "regions", "created_at"},
		},
		{
			name:  "stores table exists",
			table: "stores",
			cols:  []string{"id", "name", "chain", "address", "city", "created_at"},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestStoreCountConstraint(t *testing.T) {
	d := openTestDB(t)

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"zero is valid", 0, false},
		{"positive is valid", 3000, false},
		{"negative is invalid", -1, true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Exec(`INSERT INTO chains (name, store_count) VALUES (?, ?)`, fmt.Sprintf("chain-%d", i), tt.count)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	d := openTestDB(t)

	if err := migrate(d); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

// openTestDB opens a fresh in-memory database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := Open()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sql.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}

package db_test

import (
	"testing"

	"github.com/winnersswap/swap-web/internal/db"
	"github.com/winnersswap/swap-web/internal/testutil"
)

func TestMigrate_CreatesSessionsTable(t *testing.T) {
	conn := testutil.NewTestDB(t)

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM sessions`); err != nil {
		t.Fatalf("sessions table missing: %v", err)
	}
	if n != 0 {
		t.Errorf("sessions rows = %d, want 0", n)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := db.New("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

package dbopen

import (
	"database/sql"
	"testing"
)

func TestTraceDriverRegistered(t *testing.T) {
	// The init() in trace.go registers "sqlite-trace".
	found := false
	for _, d := range sql.Drivers() {
		if d == "sqlite-trace" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("sqlite-trace driver not registered")
	}
}

func TestTracingDriverOpenAndQuery(t *testing.T) {
	db := OpenMemory(t, WithTracing())

	if _, err := db.Exec("CREATE TABLE test (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO test VALUES (1)"); err != nil {
		t.Fatal(err)
	}

	var val int
	if err := db.QueryRow("SELECT id FROM test").Scan(&val); err != nil {
		t.Fatal(err)
	}
	if val != 1 {
		t.Fatalf("query result: got %d", val)
	}
}

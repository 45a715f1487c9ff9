package snapshot

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS loyalty_snapshot").
		WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewPostgresStore(db)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	return store, mock, db
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO loyalty_snapshot").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Save(ledger.Bootstrap()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_LoadExisting(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()

	doc, err := Encode(sampleData())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rows := sqlmock.NewRows([]string{"doc"}).AddRow(doc)
	mock.ExpectQuery("SELECT doc FROM loyalty_snapshot").WillReturnRows(rows)

	data, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(data.Users))
	}
	if data.Users[1].Name != "Mona" {
		t.Fatalf("unexpected user %+v", data.Users[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_LoadEmptyTableBootstraps(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT doc FROM loyalty_snapshot").WillReturnError(sql.ErrNoRows)

	data, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data.Users) != 1 || data.Users[0].ID != ledger.SeedAdminID {
		t.Fatalf("expected bootstrap aggregate, got %+v", data.Users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

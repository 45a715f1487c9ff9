package snapshot

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

const (
	createSnapshotTableQuery = `
		CREATE TABLE IF NOT EXISTS loyalty_snapshot (
			id INT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	upsertSnapshotQuery = `
		INSERT INTO loyalty_snapshot (id, doc, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`
	selectSnapshotQuery = `SELECT doc FROM loyalty_snapshot WHERE id = 1`
)

// PostgresStore keeps the whole aggregate as one JSONB document in a
// single-row table. Same document shape as FileStore, so backups stay
// interchangeable between backends.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if _, err := db.Exec(createSnapshotTableQuery); err != nil {
		return nil, errors.Wrap(err, "create snapshot table")
	}
	return &PostgresStore{db: db}, nil
}

// Save implements ledger.Persister.
func (p *PostgresStore) Save(data ledger.AppData) error {
	raw, err := Encode(data)
	if err != nil {
		return err
	}
	if _, err := p.db.Exec(upsertSnapshotQuery, raw); err != nil {
		return errors.Wrap(err, "upsert snapshot")
	}
	return nil
}

// Load reads the stored document, bootstrapping on an empty table.
func (p *PostgresStore) Load() (ledger.AppData, error) {
	var raw []byte
	err := p.db.QueryRow(selectSnapshotQuery).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Bootstrap(), nil
	}
	if err != nil {
		return ledger.AppData{}, errors.Wrap(err, "select snapshot")
	}
	return decodeLenient(raw)
}

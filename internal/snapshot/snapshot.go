// Package snapshot serializes the loyalty aggregate to durable storage and
// back. Two backends exist: a local JSON file (the default) and a single-row
// Postgres table. Both persist the same pretty-printed document, so a file
// exported from one deployment imports cleanly into another.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

// ErrMissingCollections marks an import document that lacks one of the
// required top-level collections.
var ErrMissingCollections = errors.New("snapshot missing required collections: users, transactions, vouchers")

// requiredKeys is the minimum shape an imported document must carry. The
// remaining collections are backfilled to empty when absent so older backups
// keep importing.
var requiredKeys = []string{"users", "transactions", "vouchers"}

// Encode renders the aggregate as 2-space-indented JSON. Export artifacts
// are this byte-exact form.
func Encode(data ledger.AppData) ([]byte, error) {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return raw, nil
}

// Decode parses an imported document. It requires users, transactions and
// vouchers to be present and non-null; correctionRequests, notifications and
// adminEarnings default to empty. No deeper schema validation is performed.
func Decode(raw []byte) (ledger.AppData, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ledger.AppData{}, errors.Wrap(err, "parse snapshot")
	}
	for _, key := range requiredKeys {
		v, ok := doc[key]
		if !ok || string(v) == "null" {
			return ledger.AppData{}, ErrMissingCollections
		}
	}

	var data ledger.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ledger.AppData{}, errors.Wrap(err, "parse snapshot")
	}
	return data.Normalize(), nil
}

// decodeLenient is the load-time path: no required-key check, just the
// versioned-default merge. Import stays strict; loading an old local
// snapshot stays forgiving.
func decodeLenient(raw []byte) (ledger.AppData, error) {
	var data ledger.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ledger.AppData{}, errors.Wrap(err, "parse snapshot")
	}
	return data.Normalize(), nil
}

// BackupFilename names an export artifact after its date, e.g.
// loyalty_backup_2024-05-01.json.
func BackupFilename(t time.Time) string {
	return "loyalty_backup_" + t.UTC().Format("2006-01-02") + ".json"
}

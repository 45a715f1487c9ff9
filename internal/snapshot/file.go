package snapshot

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

// FileStore keeps the aggregate in a single local JSON file. Writes go
// through a temp file and rename so a crash mid-write never truncates the
// snapshot.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Save implements ledger.Persister.
func (f *FileStore) Save(data ledger.AppData) error {
	raw, err := Encode(data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create snapshot directory")
	}

	tmp, err := os.CreateTemp(dir, ".loyalty-snapshot-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close temp snapshot")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}

// Load reads the snapshot. A missing file is first run: the bootstrap
// aggregate (seeded admin, empty collections) is returned. An unreadable or
// malformed file is an error; callers decide whether to fall back.
func (f *FileStore) Load() (ledger.AppData, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ledger.Bootstrap(), nil
		}
		return ledger.AppData{}, errors.Wrap(err, "read snapshot")
	}
	return decodeLenient(raw)
}

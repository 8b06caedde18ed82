package storage

import (
	"errors"

	"github.com/go-logr/logr"

	"nbl/internal/config"
	"nbl/internal/domain"
)

// Storage persists and loads test run results (e.g. for the results viewer).
type Storage interface {
	Save(result *domain.RunResult, meta domain.RunMeta) error
	Load() (*domain.StoredRun, error)
}

// JSONStorage stores the last run in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Open returns the JSON storage, plus the MySQL run history when a DSN is
// configured. Loads come from the JSON file.
func Open(cfg *config.Config, log logr.Logger) (Storage, func() error, error) {
	js := NewJSONStorage(cfg)
	if cfg.DatabaseDSN == "" {
		return js, func() error { return nil }, nil
	}
	db, err := OpenMySQL(cfg.DatabaseDSN, log)
	if err != nil {
		return nil, nil, err
	}
	return &multiStorage{stores: []Storage{js, db}}, db.Close, nil
}

// multiStorage saves to every store and loads from the first
type multiStorage struct {
	stores []Storage
}

func (m *multiStorage) Save(result *domain.RunResult, meta domain.RunMeta) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Save(result, meta); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiStorage) Load() (*domain.StoredRun, error) {
	return m.stores[0].Load()
}

package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"factoryfloor/internal/domain"
)

// Stores bundles the three databases. A nil handle means the store could
// not be reached; readers degrade, writers fail.
type Stores struct {
	Main    *gorm.DB
	Montaza *gorm.DB
	Cas     *gorm.DB
}

// Open connects the main, montaza and cas stores. Missing main or cas files
// are not created: the handle stays nil and a warning is logged. The montaza
// database is owned by this application and is created when absent.
func Open(mainPath, montazaDSN, casPath string, log *zap.Logger) (*Stores, error) {
	s := &Stores{}

	var err error
	s.Main, err = openExisting("main", mainPath, log)
	if err != nil {
		return nil, err
	}

	s.Montaza, err = Connect(montazaDSN)
	if err != nil {
		s.Close(log)
		return nil, fmt.Errorf("open montaza store: %w", err)
	}

	s.Cas, err = openExisting("cas", casPath, log)
	if err != nil {
		s.Close(log)
		return nil, err
	}
	return s, nil
}

func openExisting(name, path string, log *zap.Logger) (*gorm.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("database file not found, store unavailable",
				zap.String("store", name), zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s store: %w", name, err)
	}
	db, err := Connect(path)
	if err != nil {
		log.Warn("could not open database, store unavailable",
			zap.String("store", name), zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	return db, nil
}

func (s *Stores) Close(log *zap.Logger) {
	Close(s.Main, log)
	Close(s.Montaza, log)
	Close(s.Cas, log)
}

// InitMontazaSchema creates or upgrades the montaza tables. Columns added in
// later versions (priority, pause_status, last_*_updated_at) are added to
// older databases by the migrator.
func InitMontazaSchema(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("montaza store: %w", domain.ErrStoreUnavailable)
	}
	return db.AutoMigrate(
		&domain.ProjectNotes{},
		&domain.DniStatus{},
		&domain.ProjectPhoto{},
		&domain.User{},
	)
}

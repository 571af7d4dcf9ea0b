// Package testutil builds throwaway store fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"factoryfloor/internal/database"
	"factoryfloor/internal/domain"
)

// NewStores opens three file backed SQLite stores in a temp dir with the
// main and cas tables created and the montaza schema initialised.
func NewStores(t testing.TB) *database.Stores {
	t.Helper()
	dir := t.TempDir()

	open := func(name string) *gorm.DB {
		db, err := database.Connect(filepath.Join(dir, name))
		require.NoError(t, err)
		return db
	}

	s := &database.Stores{
		Main:    open("main.db"),
		Montaza: open("montaza.db"),
		Cas:     open("cas.db"),
	}
	t.Cleanup(func() { s.Close(zap.NewNop()) })

	require.NoError(t, s.Main.AutoMigrate(&domain.WorkOrder{}, &domain.Component{}))
	require.NoError(t, s.Cas.AutoMigrate(&domain.TimeEntry{}))
	require.NoError(t, database.InitMontazaSchema(s.Montaza))
	return s
}

func SeedWorkOrders(t testing.TB, db *gorm.DB, rows ...domain.WorkOrder) {
	t.Helper()
	require.NoError(t, db.Create(&rows).Error)
}

func SeedComponents(t testing.TB, db *gorm.DB, rows ...domain.Component) {
	t.Helper()
	require.NoError(t, db.Create(&rows).Error)
}

func SeedTimeEntries(t testing.TB, db *gorm.DB, rows ...domain.TimeEntry) {
	t.Helper()
	require.NoError(t, db.Create(&rows).Error)
}

// WO is shorthand for a work order row.
func WO(project, no, center string) domain.WorkOrder {
	return domain.WorkOrder{ProjectTaskNo: project, WorkOrderNo: no, Description: "WO " + no, WorkCenter: center}
}

func Str(s string) *string { return &s }

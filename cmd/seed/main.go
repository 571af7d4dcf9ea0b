// Command seed fills the three databases with a small demo factory:
// projects with work orders and components, time clock events and two
// accounts (admin/admin123, viewer/viewer123).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"factoryfloor/internal/config"
	"factoryfloor/internal/database"
	"factoryfloor/internal/domain"
	"factoryfloor/internal/modules/auth"
	"factoryfloor/internal/pkg/logger"
	"factoryfloor/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New("info", false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed complete")
}

func run(cfg *config.Config, log *zap.Logger) error {
	mainDB, err := database.Connect(cfg.MainDBPath)
	if err != nil {
		return err
	}
	defer database.Close(mainDB, log)
	cas, err := database.Connect(cfg.CasDBPath)
	if err != nil {
		return err
	}
	defer database.Close(cas, log)
	montaza, err := database.Connect(cfg.MontazaDSN)
	if err != nil {
		return err
	}
	defer database.Close(montaza, log)

	if err := seedMain(mainDB); err != nil {
		return fmt.Errorf("main: %w", err)
	}
	log.Info("main database seeded", zap.String("path", cfg.MainDBPath))

	if err := seedCas(cas); err != nil {
		return fmt.Errorf("cas: %w", err)
	}
	log.Info("time clock database seeded", zap.String("path", cfg.CasDBPath))

	if err := seedMontaza(montaza); err != nil {
		return fmt.Errorf("montaza: %w", err)
	}
	log.Info("montaza database seeded")
	return nil
}

func seedMain(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.WorkOrder{}, &domain.Component{}); err != nil {
		return err
	}
	db.Exec("DELETE FROM components")
	db.Exec("DELETE FROM work_orders")

	var wos []domain.WorkOrder
	var comps []domain.Component
	for p := 1; p <= 4; p++ {
		project := fmt.Sprintf("PRJ-24-%03d", p)
		for w := 1; w <= 3; w++ {
			wos = append(wos, domain.WorkOrder{
				ProjectTaskNo: project,
				WorkOrderNo:   fmt.Sprintf("DN%d%02d", p, w),
				Description:   fmt.Sprintf("Cabinet %d assembly", w),
				WorkCenter:    "303",
			})
		}
		wos = append(wos, domain.WorkOrder{
			ProjectTaskNo: project,
			WorkOrderNo:   fmt.Sprintf("DN%d90", p),
			Description:   "Sheet metal",
			WorkCenter:    "101",
		})

		comps = append(comps,
			domain.Component{ProjectTaskNo: project, ItemNo: "EL-100", Description: "Contactor 24V", WorkCenter: "303",
				Inventory: domain.NewQuantity(float64(p % 2 * 5)), RemainingQuantity: domain.NewQuantity(2), SifraRegala: "A-01"},
			domain.Component{ProjectTaskNo: project, ItemNo: "MC-210", Description: "Door hinge", WorkCenter: "101",
				Inventory: domain.NewQuantity(0), RemainingQuantity: domain.NewQuantity(4), SifraRegala: "B-12"},
			domain.Component{ProjectTaskNo: project, ItemNo: "MC-300", Description: "Mounting plate", WorkCenter: "101",
				Inventory: domain.NewQuantity(3), RemainingQuantity: domain.NewQuantity(1), SifraRegala: "B-07"},
		)
	}
	if err := db.Create(&wos).Error; err != nil {
		return err
	}
	return db.Create(&comps).Error
}

func seedCas(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.TimeEntry{}); err != nil {
		return err
	}
	db.Exec("DELETE FROM time_entries")

	base := time.Now().Add(-48 * time.Hour)
	stamp := func(h int) string { return base.Add(time.Duration(h) * time.Hour).Format("2006-01-02T15:04:05") }
	entries := []domain.TimeEntry{
		{RefDocNo: "DN101", WorkerName: "Marko", EventDatetime: stamp(0), EventType: "Začni"},
		{RefDocNo: "DN101", WorkerName: "Marko", EventDatetime: stamp(3), EventType: domain.EventFinalize},
		{RefDocNo: "DN102", WorkerName: "Jana", EventDatetime: stamp(5), EventType: "Začni"},
		{RefDocNo: "DN201", WorkerName: "Luka", EventDatetime: stamp(1), EventType: domain.EventFinalize},
		{RefDocNo: "DN290", WorkerName: "Tina", EventDatetime: stamp(6), EventType: "Začni"},
	}
	return db.Create(&entries).Error
}

func seedMontaza(db *gorm.DB) error {
	if err := database.InitMontazaSchema(db); err != nil {
		return err
	}
	db.Exec("DELETE FROM users")

	users := repository.NewUserRepository(db)
	for _, acc := range []struct {
		name, password string
		role           domain.UserRole
	}{
		{"admin", "admin123", domain.RoleAdmin},
		{"viewer", "viewer123", domain.RoleViewer},
	} {
		hash, err := auth.HashPassword(acc.password)
		if err != nil {
			return err
		}
		if err := users.Create(context.Background(), &domain.User{Username: acc.name, PasswordHash: hash, Role: acc.role}); err != nil {
			return err
		}
	}
	return nil
}

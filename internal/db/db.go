package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kalakriti-store/commerce-api/internal/config"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Service{},
		&models.Reservation{},
		&models.LineItem{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Slot exclusivity: at most one live booking per (service, date, start).
	// Enforced in the database so the guarantee holds across engine
	// instances; a duplicate insert fails instead of racing.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_live_slot
        ON reservations (service_id, slot_date, slot_start)
        WHERE kind = 'booking' AND status IN ('pending', 'paid')
    `)

	return db
}

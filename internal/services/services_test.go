package services

import (
	"testing"

	"classroom_server/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the core schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A second pooled connection would see its own empty :memory: db
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(
		&models.Class{},
		&models.Device{},
		&models.OperationLog{},
		&models.DataRecord{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return database
}

func createTestClass(t *testing.T, database *gorm.DB, name string) uint {
	t.Helper()
	cls := models.Class{Name: name}
	if err := database.Create(&cls).Error; err != nil {
		t.Fatalf("Failed to create test class %s: %v", name, err)
	}
	return cls.ID
}

func createTestDevice(t *testing.T, database *gorm.DB, id, deviceType string, classID *uint) {
	t.Helper()
	device := models.Device{
		ID:      id,
		Name:    "device " + id,
		Type:    deviceType,
		ClassID: classID,
	}
	if err := database.Create(&device).Error; err != nil {
		t.Fatalf("Failed to create test device %s: %v", id, err)
	}
}

func deviceClassID(t *testing.T, database *gorm.DB, id string) *uint {
	t.Helper()
	var device models.Device
	if err := database.First(&device, "device_id = ?", id).Error; err != nil {
		t.Fatalf("Failed to load device %s: %v", id, err)
	}
	return device.ClassID
}

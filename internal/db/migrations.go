package db

import (
	"fmt"
	"os"

	"classroom_server/internal/models"
	"classroom_server/pkg/colors"

	"gorm.io/gorm"
)

// RunMigrations runs the idempotent schema migration, parents before
// children so foreign keys resolve. The schema declares FK constraints,
// but the services also enforce referential rules at the application
// level, so a backend without FK support still keeps the invariants.
func RunMigrations(database *gorm.DB) error {
	colors.PrintSubHeader("Running database migrations")

	if err := database.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("users table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.Class{}); err != nil {
		return fmt.Errorf("classes table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.Device{}); err != nil {
		return fmt.Errorf("devices table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.OperationLog{}); err != nil {
		return fmt.Errorf("operation_logs table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.DataRecord{}); err != nil {
		return fmt.Errorf("data_records table migration failed: %v", err)
	}

	if err := seedAdminUser(database); err != nil {
		return fmt.Errorf("admin user bootstrap failed: %v", err)
	}

	colors.PrintSuccess("Database migrations completed")
	return nil
}

// seedAdminUser creates the bootstrap admin account on a fresh
// database so the API is reachable after first deployment
func seedAdminUser(database *gorm.DB) error {
	var count int64
	if err := database.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    getEnv("ADMIN_EMAIL", "admin@classroom.local"),
		Password: getEnv("ADMIN_PASSWORD", "admin123"),
		Role:     models.UserRoleAdmin,
	}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}

	colors.PrintInfo("Seeded admin user %s", admin.Email)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

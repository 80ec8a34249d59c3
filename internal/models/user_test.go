package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(&User{}); err != nil {
		t.Fatalf("Failed to migrate users table: %v", err)
	}
	return database
}

func TestMultipleUsersWithClearedTokens(t *testing.T) {
	database := newUserTestDB(t)

	users := []*User{
		{Name: "First", Email: "first@classroom.local", Password: "secret1"},
		{Name: "Second", Email: "second@classroom.local", Password: "secret2"},
	}
	for _, u := range users {
		if err := u.GenerateToken(); err != nil {
			t.Fatalf("Failed to generate token for %s: %v", u.Email, err)
		}
		if err := database.Create(u).Error; err != nil {
			t.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
	}

	// Both users end their sessions; the cleared tokens must not
	// collide on the unique token index
	for _, u := range users {
		u.ClearToken()
		if err := database.Save(u).Error; err != nil {
			t.Fatalf("Failed to clear token for %s: %v", u.Email, err)
		}
	}

	for _, u := range users {
		var reloaded User
		if err := database.First(&reloaded, "email = ?", u.Email).Error; err != nil {
			t.Fatalf("Failed to reload user %s: %v", u.Email, err)
		}
		if reloaded.Token != nil {
			t.Errorf("Expected NULL token for %s, got %q", u.Email, *reloaded.Token)
		}
		if reloaded.IsTokenValid() {
			t.Errorf("Expected cleared token to be invalid for %s", u.Email)
		}
	}
}

func TestUsersCreatedWithoutTokens(t *testing.T) {
	database := newUserTestDB(t)

	for _, email := range []string{"a@classroom.local", "b@classroom.local"} {
		u := User{Name: "User", Email: email, Password: "secret"}
		if err := database.Create(&u).Error; err != nil {
			t.Fatalf("Failed to create user %s: %v", email, err)
		}
	}

	var count int64
	database.Model(&User{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 users without tokens, got %d", count)
	}
}

func TestGenerateTokenIsUnique(t *testing.T) {
	var a, b User
	if err := a.GenerateToken(); err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if err := b.GenerateToken(); err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if a.Token == nil || b.Token == nil || *a.Token == *b.Token {
		t.Error("Expected distinct random tokens")
	}
	if !a.IsTokenValid() {
		t.Error("Expected a fresh token to be valid")
	}
}

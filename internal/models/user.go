package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRole represents the user role enum
type UserRole int

const (
	UserRoleAdmin   UserRole = 0 // Admin role
	UserRoleTeacher UserRole = 1 // Teacher role
)

// User represents a system user who can operate classroom devices
type User struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	Name      string     `json:"name" gorm:"size:100;not null" validate:"required,min=2,max=100"`
	Email     string     `json:"email" gorm:"size:100;uniqueIndex" validate:"required,email"`
	Password  string     `json:"password" gorm:"size:255;not null" validate:"required,min=6"`
	Role      UserRole   `json:"role" gorm:"type:integer;not null;default:1" validate:"required,oneof=0 1"`
	// Token is a pointer so users without a session store NULL; an
	// empty string would collide on the unique index as soon as two
	// users log out
	Token     *string    `json:"-" gorm:"size:255;uniqueIndex"`
	TokenExp  *time.Time `json:"-" gorm:"index"` // Token expiration time
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to hash password before saving
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// BeforeUpdate hook to hash password before updating
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Password") && u.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword verifies if the provided password matches the user's password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// GenerateToken creates a new authentication token for the user
func (u *User) GenerateToken() error {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}

	token := hex.EncodeToString(tokenBytes)
	u.Token = &token
	// Token expires 24 hours from now
	expirationTime := time.Now().Add(24 * time.Hour)
	u.TokenExp = &expirationTime

	return nil
}

// ClearToken ends the user's session; the NULL token never matches an
// Authorization header
func (u *User) ClearToken() {
	u.Token = nil
	u.TokenExp = nil
}

// IsTokenValid checks whether the user's token is present and unexpired
func (u *User) IsTokenValid() bool {
	if u.Token == nil || *u.Token == "" || u.TokenExp == nil {
		return false
	}
	return time.Now().Before(*u.TokenExp)
}

// ToSafeUser returns user data without sensitive fields
func (u *User) ToSafeUser() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

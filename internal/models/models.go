package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config represents the global configuration of the deployment
// This is a singleton model (only one row should exist)
type Config struct {
	BaseModel
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"` // Auto-generated on first start (64 hex chars)
}

// User represents a storefront account
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Name         string `json:"name" gorm:"not null"`

	Addresses []Address `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Address represents a saved shipping address
type Address struct {
	BaseModel
	UserID       string `json:"user_id" gorm:"type:varchar(26);index;not null"`
	FullName     string `json:"full_name" gorm:"not null"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1" gorm:"not null"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" gorm:"not null"`
	State        string `json:"state"`
	Country      string `json:"country" gorm:"not null"`
	PostalCode   string `json:"postal_code" gorm:"not null"`
	IsDefault    bool   `json:"is_default" gorm:"not null;default:false"`
}

// RevokedToken records a session token ended by logout.
// Rows can be purged once ExpiresAt has passed.
type RevokedToken struct {
	BaseModel
	TokenID   string    `json:"token_id" gorm:"uniqueIndex;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(26);index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Config{},
		&User{},
		&Address{},
		&RevokedToken{},
	)
}

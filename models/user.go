package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents an account that can sign in and belong to workspaces
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	Email        string     `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	DisplayName  string     `gorm:"size:255;not null" json:"display_name"`
	IsActive     *bool      `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Memberships []WorkspaceMember `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (User) TableName() string { return "users" }

// BeforeCreate is called before creating a new record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	return nil
}

// SetPassword hashes the plaintext password and stores the hash
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks the plaintext password against the stored hash
func (u *User) VerifyPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Email    *string
	IsActive *bool
}

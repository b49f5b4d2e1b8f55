package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamp, PersistentDeletion and UUIDField are embedded by value into entities.
type Timestamp struct {
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PersistentDeletion struct {
	DeletedAt *time.Time `json:"deleted_at"`
	IsDeleted bool       `json:"is_deleted" gorm:"not null;index"`
}

type UUIDField struct {
	UUID uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
}

type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"size:50;not null"`
	Username       string `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email          string `json:"email" gorm:"size:50;uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
	IsSuperuser    bool   `json:"is_superuser" gorm:"not null;index"`

	UUIDField
	Timestamp
	PersistentDeletion
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the public uuid when the caller left it empty.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}

// UserRead is the projection of a user that is safe to return to clients.
type UserRead struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
}

func (u User) Read() UserRead {
	return UserRead{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
	}
}

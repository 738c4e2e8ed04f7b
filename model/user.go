package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a portal account. Authentication is delegated to the identity
// provider, so there is no credential material here; the row is created on
// first login and keyed by the provider-issued UID.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProviderUID string         `gorm:"uniqueIndex;not null" json:"-"`
	Email       string         `gorm:"index" json:"email"`
	Name        string         `json:"name"`
	Picture     string         `gorm:"type:varchar(512)" json:"picture"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150)" json:"last_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Categories []TaskCategory `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks      []Task         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

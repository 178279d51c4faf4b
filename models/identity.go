package models

import "time"

// LocalAccount backs the built-in identity provider used for development.
type LocalAccount struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	DisplayName  string    `gorm:"column:display_name"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'user'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

type LocalSession struct {
	Token     string    `gorm:"primaryKey"`
	AccountID string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null"`
}

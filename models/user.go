package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserProfile is the per-user record keyed by the identity provider's uid.
// Balance is only ever changed by joins, withdrawals and manual adjustments.
type UserProfile struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"`
	GameID    string    `json:"game_id" gorm:"column:game_id"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'user'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DefaultGameID is stored for accounts created through federated sign-in,
// which never collect an in-game id.
const DefaultGameID = "SET_ID"

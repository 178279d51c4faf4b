package models

import "time"

type Notice struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Date      int64     `json:"date" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SingletonID is the primary key of the single settings and marquee rows.
const SingletonID = 1

// AdminSettings holds the receiving numbers shown on the deposit screen.
type AdminSettings struct {
	ID          uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	BkashNumber string    `json:"bkash_number"`
	NagadNumber string    `json:"nagad_number"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

const (
	DefaultBkashNumber = "017XXXXXXXX"
	DefaultNagadNumber = "019XXXXXXXX"
)

func DefaultSettings() AdminSettings {
	return AdminSettings{ID: SingletonID, BkashNumber: DefaultBkashNumber, NagadNumber: DefaultNagadNumber}
}

type Marquee struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Text      string    `json:"text" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

const DefaultMarqueeText = "🔥 নতুন মেগা টুর্নামেন্টে জয়েন করুন! 🔥 রুম আইডি ১০ মিনিট আগে দেওয়া হবে।"

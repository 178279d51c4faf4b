package models

import "time"

type MessageStatus string

const (
	MessagePending MessageStatus = "Pending"
	MessageReplied MessageStatus = "Replied"
)

type SupportMessage struct {
	ID        string        `json:"id" gorm:"primaryKey"`
	UserID    string        `json:"user_id" gorm:"not null;index"`
	UserName  string        `json:"user_name"`
	Message   string        `json:"message" gorm:"type:text;not null"`
	Reply     string        `json:"reply,omitempty" gorm:"type:text"`
	Status    MessageStatus `json:"status" gorm:"type:varchar(16);not null"`
	Date      int64         `json:"date" gorm:"not null"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

package models

import (
	"time"
)

// MatchType is the participation type: how many players make up one team.
type MatchType string

const (
	MatchSolo  MatchType = "Solo"
	MatchDuo   MatchType = "Duo"
	MatchSquad MatchType = "Squad"
)

func (t MatchType) Valid() bool {
	switch t {
	case MatchSolo, MatchDuo, MatchSquad:
		return true
	}
	return false
}

// MatchStatus is either a stored override or a derived status.
type MatchStatus string

const (
	StatusUpcoming MatchStatus = "Upcoming"
	StatusLive     MatchStatus = "Live"
	StatusFinished MatchStatus = "Finished"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusFinished:
		return true
	}
	return false
}

// Tournament is a scheduled match event. StartTime is epoch milliseconds.
type Tournament struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	Title        string      `json:"title" gorm:"not null"`
	Type         MatchType   `json:"type" gorm:"type:varchar(16);not null"`
	BaseEntryFee int64       `json:"base_entry_fee" gorm:"not null;default:0"`
	PerKill      int64       `json:"per_kill" gorm:"default:0"`
	Prize1       int64       `json:"prize1" gorm:"column:prize1;default:0"`
	Prize2       int64       `json:"prize2" gorm:"column:prize2;default:0"`
	Prize3       int64       `json:"prize3" gorm:"column:prize3;default:0"`
	StartTime    int64       `json:"start_time" gorm:"not null;index"`
	MaxPlayers   int         `json:"max_players" gorm:"not null;default:0"`
	Status       MatchStatus `json:"status,omitempty" gorm:"type:varchar(16)"`
	RoomID       string      `json:"room_id,omitempty"`
	RoomPass     string      `json:"room_pass,omitempty"`
	Map          string      `json:"map"`
	BannerURL    string      `json:"banner_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	JoinedPlayers []PlayerRecord `json:"joined_players" gorm:"foreignKey:TournamentID;constraint:OnDelete:CASCADE"`

	// Calculated fields (not stored in DB)
	DerivedStatus MatchStatus `json:"derived_status,omitempty" gorm:"-"`
	FilledSlots   int         `json:"filled_slots" gorm:"-"`
}

// PlayerRecord is one team's registration. A user holds at most one record
// per tournament; the unique index makes the join append conditional.
type PlayerRecord struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	TournamentID      string    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_roster_member"`
	UserID            string    `json:"user_id" gorm:"not null;uniqueIndex:idx_roster_member;index"`
	Names             []string  `json:"names" gorm:"type:text;serializer:json"`
	ParticipationType MatchType `json:"participation_type" gorm:"type:varchar(16);not null"`
	Kills             *int      `json:"kills,omitempty"`
	Rank              *int      `json:"rank,omitempty"`
	Position          int       `json:"position" gorm:"not null"`
	JoinedAt          time.Time `json:"joined_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

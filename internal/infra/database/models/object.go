package models

import (
	"time"
)

type Post struct {
	ID      string    `json:"id" gorm:"primaryKey;type:text"`
	Creator string    `json:"creator" gorm:"type:text;index"`
	Text    string    `json:"text" gorm:"type:text"`
	Local   bool      `json:"local" gorm:"type:boolean;not null;default:false"`
	CDate   time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Actor struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Name      string    `json:"name" gorm:"type:text;index"`
	Inbox     string    `json:"inbox" gorm:"type:text"`
	Followers string    `json:"followers" gorm:"type:text"`
	Local     bool      `json:"local" gorm:"type:boolean;not null;default:false"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

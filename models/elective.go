package models

import (
	"time"

	"github.com/google/uuid"
)

// Elective is one entry of a client's "my electives" shortlist.
type Elective struct {
	ClientID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"client_id"`
	Code      string    `gorm:"size:32;primaryKey" json:"code"`
	Dataset   string    `gorm:"size:100;not null" json:"dataset"`
	Title     string    `gorm:"size:255" json:"title"`
	Snapshot  string    `gorm:"type:text;not null" json:"-"` // record as it was when saved
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

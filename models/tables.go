package models

import "time"

// StoredToken is the single bearer token kept in local persistent storage.
type StoredToken struct {
	ID        uint   `gorm:"primary_key"`
	Name      string `gorm:"unique;not null"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

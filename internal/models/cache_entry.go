package models

import (
	"time"
)

// CacheEntry is a row of the database cache driver. Plain keys use an empty
// Field; bucket pages share the Key and carry the page in Field.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;column:bucket_key;size:255"`
	Field     string    `gorm:"primaryKey;column:bucket_field;size:64"`
	Value     []byte
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

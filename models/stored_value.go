package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoredValue is one key of the desk's local storage.
type StoredValue struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Key       string `gorm:"uniqueIndex"`
	Value     string
	UpdatedAt time.Time
}

func (v *StoredValue) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

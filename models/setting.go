package models

import (
	"time"

	"github.com/google/uuid"
)

const SettingHourlyRate = "hourly_rate"

// Setting is a global key/value configuration row editable by administrators.
type Setting struct {
	Name      string     `gorm:"primaryKey;size:64" json:"name"`
	Value     string     `gorm:"not null;size:255" json:"value"`
	UpdatedBy *uuid.UUID `gorm:"type:char(36)" json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

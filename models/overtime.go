package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OvertimeRecord struct {
	ID            uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	UserID        uuid.UUID      `gorm:"type:char(36);not null;index" json:"user_id"`
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date          time.Time      `gorm:"not null;type:date;index" json:"date"`
	StartTime     string         `gorm:"not null;size:5" json:"start_time"`
	EndTime       string         `gorm:"not null;size:5" json:"end_time"`
	LunchDiscount bool           `gorm:"not null;default:false" json:"lunch_discount"`
	TotalHours    float64        `gorm:"not null;type:numeric(6,2)" json:"total_hours"`
	NetHours      float64        `gorm:"not null;type:numeric(6,2)" json:"net_hours"`
	HourlyRate    float64        `gorm:"not null;type:numeric(10,2)" json:"hourly_rate"`
	TotalValue    float64        `gorm:"not null;type:numeric(12,2)" json:"total_value"`
}

func (r *OvertimeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Period renders the shift as "HH:MM - HH:MM".
func (r *OvertimeRecord) Period() string {
	return r.StartTime + " - " + r.EndTime
}

// OvertimeFilter narrows record listings. A month without a year refers to
// the current year.
type OvertimeFilter struct {
	UserID *uuid.UUID
	Month  int
	Year   int
}

// DateRange returns the half-open [from, to) interval selected by the
// month/year filter, or ok=false when no date filter applies.
func (f OvertimeFilter) DateRange(now time.Time) (from, to time.Time, ok bool) {
	month := f.Month
	if month < 1 || month > 12 {
		month = 0
	}
	year := f.Year
	if year < 2000 || year > 2100 {
		year = 0
	}

	switch {
	case month > 0:
		if year == 0 {
			year = now.Year()
		}
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	case year > 0:
		from = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

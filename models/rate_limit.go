package models

import "time"

// RateLimitCounter counts attempts of one action by one identifier inside a
// fixed time window.
type RateLimitCounter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Identifier  string    `gorm:"not null;size:255;uniqueIndex:idx_rate_limit_window" json:"identifier"`
	Action      string    `gorm:"not null;size:64;uniqueIndex:idx_rate_limit_window" json:"action"`
	WindowStart time.Time `gorm:"not null;uniqueIndex:idx_rate_limit_window" json:"window_start"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

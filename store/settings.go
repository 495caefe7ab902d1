package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jbovertime/models"
	"jbovertime/overtime"
)

var ErrInvalidRate = errors.New("hourly rate must be positive")

type Settings struct {
	db *gorm.DB
}

func NewSettings(db *gorm.DB) *Settings {
	return &Settings{db: db}
}

// HourlyRate returns the current global rate, or overtime.DefaultHourlyRate
// when none has been stored.
func (s *Settings) HourlyRate(ctx context.Context) (float64, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).Where("name = ?", models.SettingHourlyRate).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return overtime.DefaultHourlyRate, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load hourly rate: %w", err)
	}

	rate, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hourly rate %q: %w", setting.Value, err)
	}
	return rate, nil
}

// SetHourlyRate replaces the global rate. Existing records keep the rate
// they were created with.
func (s *Settings) SetHourlyRate(ctx context.Context, rate float64, updatedBy uuid.UUID) error {
	rate = overtime.Round2(rate)
	if rate <= 0 {
		return ErrInvalidRate
	}

	setting := models.Setting{
		Name:      models.SettingHourlyRate,
		Value:     strconv.FormatFloat(rate, 'f', 2, 64),
		UpdatedBy: &updatedBy,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("save hourly rate: %w", err)
	}
	return nil
}

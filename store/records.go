package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jbovertime/models"
)

type Records struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecords(db *gorm.DB) *Records {
	return &Records{db: db, now: time.Now}
}

// Create stores rec for its owner. The ID is assigned here.
func (s *Records) Create(ctx context.Context, rec *models.OvertimeRecord) error {
	rec.ID = uuid.Nil
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create overtime record: %w", err)
	}
	return nil
}

// Get loads one record visible to caller.
func (s *Records) Get(ctx context.Context, caller *models.User, id uuid.UUID) (*models.OvertimeRecord, error) {
	var rec models.OvertimeRecord
	err := s.visible(ctx, caller).Preload("User").First(&rec, "overtime_records.id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// Update loads the record, checks caller owns it, applies fn and saves the
// result. The owner never changes.
func (s *Records) Update(ctx context.Context, caller *models.User, id uuid.UUID, fn func(rec *models.OvertimeRecord) error) (*models.OvertimeRecord, error) {
	var rec models.OvertimeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scopeVisible(tx, caller).First(&rec, "overtime_records.id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if !caller.CanManageRecord(rec.UserID) {
			return ErrForbidden
		}

		owner := rec.UserID
		if err := fn(&rec); err != nil {
			return err
		}
		rec.ID = id
		rec.UserID = owner
		rec.User = nil

		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes a record owned by caller.
func (s *Records) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.OvertimeRecord
		if err := scopeVisible(tx, caller).First(&rec, "overtime_records.id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if !caller.CanManageRecord(rec.UserID) {
			return ErrForbidden
		}
		return tx.Delete(&rec).Error
	})
}

// List returns records visible to caller, newest first. Employees always get
// their own records regardless of filter.UserID.
func (s *Records) List(ctx context.Context, caller *models.User, filter models.OvertimeFilter) ([]models.OvertimeRecord, error) {
	query := s.visible(ctx, caller).Preload("User")

	if filter.UserID != nil && caller.CanViewAllRecords() {
		query = query.Where("overtime_records.user_id = ?", *filter.UserID)
	}
	if from, to, ok := filter.DateRange(s.now()); ok {
		query = query.Where("overtime_records.date >= ? AND overtime_records.date < ?", from, to)
	}

	var records []models.OvertimeRecord
	if err := query.Order("overtime_records.date desc, overtime_records.start_time desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list overtime records: %w", err)
	}
	return records, nil
}

func (s *Records) visible(ctx context.Context, caller *models.User) *gorm.DB {
	return scopeVisible(s.db.WithContext(ctx), caller)
}

func scopeVisible(db *gorm.DB, caller *models.User) *gorm.DB {
	if caller.CanViewAllRecords() {
		return db
	}
	return db.Where("overtime_records.user_id = ?", caller.ID)
}

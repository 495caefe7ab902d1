package ratelimit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jbovertime/models"
)

// Decision is the outcome of a durable counter hit.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

// Store is a durable windowed counter shared by every server instance.
type Store interface {
	Hit(ctx context.Context, identifier, action string) (Decision, error)
	// Reset clears the current window for identifier and action.
	Reset(ctx context.Context, identifier, action string) error
}

// windowStart aligns now to the start of its fixed window.
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.UTC().Truncate(window)
}

func decide(count int, start, now time.Time, opts Options) Decision {
	d := Decision{Allowed: count <= opts.MaxAttempts, Count: count}
	if !d.Allowed {
		d.RetryAfter = start.Add(opts.Window).Sub(now)
	}
	return d
}

// GormStore keeps counters in the rate_limit_counters table: one row per
// identifier, action and window, incremented with an upsert. Rows of past
// windows are deleted on each hit.
type GormStore struct {
	db   *gorm.DB
	opts Options
}

func NewGormStore(db *gorm.DB, opts Options) *GormStore {
	return &GormStore{db: db, opts: opts.withDefaults()}
}

func (s *GormStore) Hit(ctx context.Context, identifier, action string) (Decision, error) {
	now := s.opts.Now()
	start := windowStart(now, s.opts.Window)

	var counter models.RateLimitCounter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("window_start < ?", start).Delete(&models.RateLimitCounter{}).Error; err != nil {
			return err
		}

		upsert := models.RateLimitCounter{
			Identifier:  identifier,
			Action:      action,
			WindowStart: start,
			Count:       1,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "identifier"}, {Name: "action"}, {Name: "window_start"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("rate_limit_counters.count + 1"),
				"updated_at": now,
			}),
		}).Create(&upsert).Error
		if err != nil {
			return err
		}

		return tx.Where("identifier = ? AND action = ? AND window_start = ?", identifier, action, start).
			First(&counter).Error
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit hit: %w", err)
	}

	return decide(counter.Count, start, now, s.opts), nil
}

func (s *GormStore) Reset(ctx context.Context, identifier, action string) error {
	err := s.db.WithContext(ctx).
		Where("identifier = ? AND action = ?", identifier, action).
		Delete(&models.RateLimitCounter{}).Error
	if err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}

// Package store persists overtime records, user profiles and settings.
//
// Reads and writes are scoped by the calling user. Employees only ever see
// their own rows; administrators may read every row but only modify their
// own.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrUserExists = errors.New("user already exists")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

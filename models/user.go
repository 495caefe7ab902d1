package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID                 uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`
	Email              string           `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FullName           string           `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string           `gorm:"not null" json:"-"`
	Role               Role             `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool             `gorm:"not null;default:false" json:"must_change_password"`
	OvertimeRecords    []OvertimeRecord `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	// lookups and rate-limit keys use the lower-cased address
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManageRecord reports whether u may edit or delete a record owned by
// ownerID. Administrators can read every record but only manage their own.
func (u *User) CanManageRecord(ownerID uuid.UUID) bool {
	return u.ID == ownerID
}

func (u *User) CanViewAllRecords() bool {
	return u.IsAdmin()
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbovertime/database"
	"jbovertime/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: ":memory:", Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUser(t *testing.T, users *Users, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, FullName: email, PasswordHash: "x", Role: role}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func newRecord(owner *models.User, date time.Time) *models.OvertimeRecord {
	return &models.OvertimeRecord{
		UserID:        owner.ID,
		Date:          date,
		StartTime:     "08:00",
		EndTime:       "18:00",
		LunchDiscount: true,
		TotalHours:    10,
		NetHours:      9,
		HourlyRate:    15.57,
		TotalValue:    140.13,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecords_CreateAndReload(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	records := NewRecords(db)
	ctx := context.Background()

	ana := createUser(t, users, "ana@redejb.com.br", models.RoleEmployee)
	rec := newRecord(ana, day(2026, 10, 1))
	rec.StartTime, rec.EndTime = "08:00", "15:20"
	rec.TotalHours, rec.NetHours, rec.TotalValue = 7.33, 6.33, 98.56

	if err := records.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatalf("expected an ID to be assigned")
	}

	got, err := records.Get(ctx, ana, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalHours != 7.33 || got.NetHours != 6.33 || got.TotalValue != 98.56 || got.HourlyRate != 15.57 {
		t.Fatalf("figures changed on reload: %+v", got)
	}
	if !got.Date.Equal(day(2026, 10, 1)) {
		t.Fatalf("date changed on reload: %v", got.Date)
	}
	if got.User == nil || got.User.Email != "ana@redejb.com.br" {
		t.Fatalf("expected owner preloaded, got %+v", got.User)
	}
}

func TestRecords_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	records := NewRecords(db)
	ctx := context.Background()

	ana := createUser(t, users, "ana@redejb.com.br", models.RoleEmployee)
	bruno := createUser(t, users, "bruno@redejb.com.br", models.RoleEmployee)
	admin := createUser(t, users, "admin@redejb.com.br", models.RoleAdmin)

	rec := newRecord(ana, day(2026, 10, 1))
	if err := records.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := records.Get(ctx, bruno, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other employee should not see the record, got %v", err)
	}
	if _, err := records.Get(ctx, admin, rec.ID); err != nil {
		t.Fatalf("admin should read the record: %v", err)
	}

	noop := func(*models.OvertimeRecord) error { return nil }
	if _, err := records.Update(ctx, bruno, rec.ID, noop); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other employee update, got %v", err)
	}
	if _, err := records.Update(ctx, admin, rec.ID, noop); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin update, got %v", err)
	}
	if err := records.Delete(ctx, admin, rec.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin delete, got %v", err)
	}
	if err := records.Delete(ctx, bruno, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other employee delete, got %v", err)
	}
}

func TestRecords_UpdateKeepsOwner(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	records := NewRecords(db)
	ctx := context.Background()

	ana := createUser(t, users, "ana@redejb.com.br", models.RoleEmployee)
	bruno := createUser(t, users, "bruno@redejb.com.br", models.RoleEmployee)
	rec := newRecord(ana, day(2026, 10, 1))
	if err := records.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := records.Update(ctx, ana, rec.ID, func(r *models.OvertimeRecord) error {
		r.UserID = bruno.ID
		r.EndTime = "20:00"
		r.TotalHours, r.NetHours, r.TotalValue = 12, 11, 171.27
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UserID != ana.ID {
		t.Fatalf("owner must not change")
	}

	got, err := records.Get(ctx, ana, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EndTime != "20:00" || got.TotalValue != 171.27 || got.UserID != ana.ID {
		t.Fatalf("unexpected record after update: %+v", got)
	}
}

func TestRecords_UpdateAbortsOnError(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	records := NewRecords(db)
	ctx := context.Background()

	ana := createUser(t, users, "ana@redejb.com.br", models.RoleEmployee)
	rec := newRecord(ana, day(2026, 10, 1))
	if err := records.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	_, err := records.Update(ctx, ana, rec.ID, func(r *models.OvertimeRecord) error {
		r.EndTime = "23:00"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := records.Get(ctx, ana, rec.ID)
	if got.EndTime != "18:00" {
		t.Fatalf("record must be unchanged, got %s", got.EndTime)
	}
}

func TestRecords_Delete(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	records := NewRecords(db)
	ctx := context.Background()

	ana := createUser(t, users, "ana@redejb.com.br", models.RoleEmployee)
	rec := newRecord(ana, day(2026, 10, 1))
	if err := records.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := records.Delete(ctx, ana, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := records.Get(ctx, ana, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRecords_ListFilters(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	records := NewRecords(db)
	records.now = func() time.Time { return day(2026, 10, 19) }
	ctx := context.Background()

	ana := createUser(t, users, "ana@redejb.com.br", models.RoleEmployee)
	bruno := createUser(t, users, "bruno@redejb.com.br", models.RoleEmployee)
	admin := createUser(t, users, "admin@redejb.com.br", models.RoleAdmin)

	for _, r := range []*models.OvertimeRecord{
		newRecord(ana, day(2026, 9, 30)),
		newRecord(ana, day(2026, 10, 2)),
		newRecord(ana, day(2026, 10, 15)),
		newRecord(bruno, day(2026, 10, 3)),
		newRecord(bruno, day(2025, 10, 3)),
	} {
		if err := records.Create(ctx, r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	own, err := records.List(ctx, ana, models.OvertimeFilter{UserID: &bruno.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(own) != 3 {
		t.Fatalf("employee should only list own records, got %d", len(own))
	}
	if !own[0].Date.Equal(day(2026, 10, 15)) {
		t.Fatalf("expected newest first, got %v", own[0].Date)
	}

	october, err := records.List(ctx, admin, models.OvertimeFilter{Month: 10, Year: 2026})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(october) != 3 {
		t.Fatalf("expected 3 records in October 2026, got %d", len(october))
	}

	monthOnly, err := records.List(ctx, admin, models.OvertimeFilter{Month: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(monthOnly) != 3 {
		t.Fatalf("month without year should use current year, got %d", len(monthOnly))
	}

	brunoAll, err := records.List(ctx, admin, models.OvertimeFilter{UserID: &bruno.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(brunoAll) != 2 {
		t.Fatalf("expected 2 records for bruno, got %d", len(brunoAll))
	}
}

func TestUsers_CreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	ctx := context.Background()

	createUser(t, users, "Ana@RedeJB.com.br ", models.RoleEmployee)

	dup := &models.User{Email: "ana@redejb.com.br", FullName: "Ana", PasswordHash: "x", Role: models.RoleEmployee}
	if err := users.Create(ctx, dup); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := users.FindByEmail(ctx, "  ANA@redejb.com.br")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email != "ana@redejb.com.br" {
		t.Fatalf("expected normalized email, got %q", got.Email)
	}
}

func TestUsers_PasswordAndRole(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)
	ctx := context.Background()

	admin := &models.User{Email: "admin@redejb.com.br", PasswordHash: "old", Role: models.RoleAdmin, MustChangePassword: true}
	if err := users.Create(ctx, admin); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := users.UpdatePassword(ctx, admin.ID, "new"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	got, err := users.FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PasswordHash != "new" || got.MustChangePassword {
		t.Fatalf("password not updated: %+v", got)
	}

	if err := users.UpdatePassword(ctx, uuid.New(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	isAdmin, err := users.HasRole(ctx, admin.ID, models.RoleAdmin)
	if err != nil || !isAdmin {
		t.Fatalf("expected admin role, got %v (%v)", isAdmin, err)
	}
	isEmployee, _ := users.HasRole(ctx, admin.ID, models.RoleEmployee)
	if isEmployee {
		t.Fatalf("admin must not have employee role")
	}
}

func TestSettings_HourlyRate(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettings(db)
	ctx := context.Background()

	rate, err := settings.HourlyRate(ctx)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rate != 15.57 {
		t.Fatalf("expected default 15.57, got %v", rate)
	}

	by := uuid.New()
	if err := settings.SetHourlyRate(ctx, 18.2, by); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := settings.SetHourlyRate(ctx, 19.756, by); err != nil {
		t.Fatalf("set again: %v", err)
	}
	rate, _ = settings.HourlyRate(ctx)
	if rate != 19.76 {
		t.Fatalf("expected 19.76, got %v", rate)
	}

	if err := settings.SetHourlyRate(ctx, 0, by); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	opts := database.SeedOptions{AdminEmail: "admin@redejb.com.br", AdminPassword: "admin123", HourlyRate: 16}

	for i := 0; i < 2; i++ {
		if err := database.Seed(db, opts, zerolog.Nop()); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	var admins int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	if admins != 1 {
		t.Fatalf("expected one admin, got %d", admins)
	}

	rate, err := NewSettings(db).HourlyRate(context.Background())
	if err != nil || rate != 16 {
		t.Fatalf("expected seeded rate 16, got %v (%v)", rate, err)
	}
}

func TestSeed_MixedCaseAdminEmail(t *testing.T) {
	db := newTestDB(t)
	opts := database.SeedOptions{AdminEmail: "Admin@RedeJB.com.br", AdminPassword: "admin123", HourlyRate: 16}
	if err := database.Seed(db, opts, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	admin, err := NewUsers(db).FindByEmail(context.Background(), "Admin@RedeJB.com.br")
	if err != nil {
		t.Fatalf("seeded admin must be found by its configured address: %v", err)
	}
	if admin.Email != "admin@redejb.com.br" {
		t.Fatalf("expected normalized email, got %q", admin.Email)
	}
}

func TestUsers_DuplicateKeyIsTranslated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createUser(t, NewUsers(db), "ana@redejb.com.br", models.RoleEmployee)

	// bypasses the lookup in Create, as a concurrent sign-up would
	err := db.WithContext(ctx).Create(&models.User{Email: "ana@redejb.com.br", PasswordHash: "x", Role: models.RoleEmployee}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestUsers_CreateRejectsUnknownRole(t *testing.T) {
	users := NewUsers(newTestDB(t))
	err := users.Create(context.Background(), &models.User{Email: "x@redejb.com.br", PasswordHash: "x", Role: "supervisor"})
	if err == nil {
		t.Fatalf("expected an error for an unknown role")
	}
}

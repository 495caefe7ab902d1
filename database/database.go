package database

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "jbovertime/logger"
	"jbovertime/models"
)

// Options selects the driver and data source for Open.
type Options struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
	Log    zerolog.Logger
}

// SeedOptions holds the values written on first start.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	HourlyRate    float64
}

// Open connects to the database and runs the schema migrations.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(applog.GormWriter{Log: opts.Log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == "sqlite" {
		// a single connection keeps in-memory databases shared and avoids
		// SQLITE_BUSY on concurrent writes
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.OvertimeRecord{},
		&models.Setting{},
		&models.RateLimitCounter{},
	)
}

// Seed creates the default administrator and the initial hourly rate when
// they do not exist yet.
func Seed(db *gorm.DB, opts SeedOptions, log zerolog.Logger) error {
	if err := seedDefaultAdmin(db, opts, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedHourlyRate(db, opts.HourlyRate); err != nil {
		return fmt.Errorf("seed hourly rate: %w", err)
	}
	return nil
}

func seedDefaultAdmin(db *gorm.DB, opts SeedOptions, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:              opts.AdminEmail,
		FullName:           "Administrador",
		PasswordHash:       string(hashedPassword),
		Role:               models.RoleAdmin,
		MustChangePassword: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", admin.Email).Msg("default admin user created, password change required on first sign-in")
	return nil
}

func seedHourlyRate(db *gorm.DB, rate float64) error {
	var setting models.Setting
	err := db.Where("name = ?", models.SettingHourlyRate).First(&setting).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(&models.Setting{
		Name:  models.SettingHourlyRate,
		Value: strconv.FormatFloat(rate, 'f', 2, 64),
	}).Error
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package commands

import (
	"github.com/spf13/cobra"

	"jbovertime/database"
	"jbovertime/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed the defaults",
	Long: `Runs the schema migrations, then creates the default administrator and the
initial hourly rate when they do not exist yet. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		log := logger.Get()

		db, err := database.Open(database.Options{
			Driver: cfg.Database.Driver,
			DSN:    cfg.Database.URL,
			Log:    log,
		})
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Seed(db, database.SeedOptions{
			AdminEmail:    cfg.Admin.Email,
			AdminPassword: cfg.Admin.Password,
			HourlyRate:    cfg.HourlyRate,
		}, log); err != nil {
			return err
		}

		log.Info().Str("driver", cfg.Database.Driver).Msg("migrations applied")
		return nil
	},
}

package cmd

import (
	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "init-db-migrate",
	Short: "Initialize tables and run database migrations",
	Long:  `This job ensures tables exist and then runs goose migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load the config and set up logging
		commonSetUp()

		sampleBaseDB, err := db.NewSampleBaseDB(events.NoopNotifier{}, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer sampleBaseDB.Close()

		// Run the migrations
		log.Info().Msgf("Running migrations...")
		if err := sampleBaseDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		log.Info().Msg("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

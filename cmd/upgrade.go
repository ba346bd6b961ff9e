package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dao"
	"github.com/haierkeys/fast-note-keeper/internal/upgrade"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Apply pending database migrations",
	Long: `Apply pending database migrations.

Already applied migrations are recorded in the schema_version table and skipped,
so the command is safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		configPath, err := resolveConfigPath(configPath)
		if err != nil {
			return err
		}

		appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		fmt.Printf("Loading config from: %s\n", configRealpath)

		lg, err := logger.NewLogger(appConfig.GetLoggerConfig())
		if err != nil {
			return err
		}
		defer lg.Sync()

		db, err := dao.NewDBEngine(appConfig.Database, false)
		if err != nil {
			return errors.Wrap(err, "failed to connect database")
		}
		defer closeDB(db)

		executed, err := upgrade.NewMigrationManager(db, lg, internalApp.Version).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Upgrade completed, %d migration(s) applied\n", executed)
		return nil
	},
}

func init() {
	addConfigFlag(upgradeCmd)
	rootCmd.AddCommand(upgradeCmd)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the catalog database and applies migrations. When no
// configuration file exists at the given path, one is written from the
// embedded example first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		config, err = shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		r.logger.Warnf("config file not found at %s, creating one", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warnf("failed to create config file: %v", err)
			config = shared.DefaultConfig()
		} else {
			config, err = shared.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load created config: %w", err)
			}
		}
	}

	r.logger.Infof("opening database at %s", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete, database ready at %s", config.Database.Path)
	return r.writePlain("✓ Database initialized at %s\n", config.Database.Path)
}

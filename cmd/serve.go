package cmd

import (
	"fmt"
	"go/types"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/landreg/registry-backend/cmd/utils"
	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/apptracker/dryrun"
	"github.com/landreg/registry-backend/internal/apptracker/sentry"
	"github.com/landreg/registry-backend/internal/serve"
)

type serveCmd struct{}

func (c *serveCmd) Command() *cobra.Command {
	cfg := serve.Configs{}

	var sentryDSN string
	cfgOpts := utils.ConfigOptions{
		utils.DatabaseURLOption(&cfg.DatabaseURL),
		utils.LogLevelOption(&cfg.LogLevel),
		utils.SentryDSNOption(&sentryDSN),
		utils.JWTSecretOption(&cfg.JWTSecret),
		{
			Name:        "port",
			Usage:       "Port to listen and serve on",
			OptType:     types.Int,
			ConfigKey:   &cfg.Port,
			FlagDefault: 8001,
			Required:    false,
		},
		{
			Name:        "notification-workers",
			Usage:       "The number of workers dispatching notifications in the background.",
			OptType:     types.Int,
			ConfigKey:   &cfg.NotificationWorkers,
			FlagDefault: 4,
			Required:    false,
		},
	}

	cmd := &cobra.Command{
		Use:               "serve",
		Short:             "Run Registry Backend server",
		PersistentPreRunE: utils.DefaultPersistentPreRunE(cfgOpts),
		RunE: func(cmd *cobra.Command, args []string) error {
			applog.SetLevel(cfg.LogLevel)

			appTracker, err := buildAppTracker(sentryDSN)
			if err != nil {
				return fmt.Errorf("building app tracker: %w", err)
			}
			cfg.AppTracker = appTracker

			if err := serve.Serve(cfg); err != nil {
				return fmt.Errorf("running serve: %w", err)
			}
			return nil
		},
	}

	if err := cfgOpts.Init(cmd); err != nil {
		applog.Fatalf("Error initializing a config option: %s", err.Error())
	}

	return cmd
}

func buildAppTracker(sentryDSN string) (apptracker.AppTracker, error) {
	if sentryDSN == "" {
		applog.Warn("No Sentry DSN configured. Errors will be tracked on stdout.")
		return &dryrun.DryRunTracker{}, nil
	}
	tracker, err := sentry.NewSentryTracker(sentryDSN, "registry-backend", 5)
	if err != nil {
		return nil, fmt.Errorf("initializing sentry tracker: %w", err)
	}
	return tracker, nil
}

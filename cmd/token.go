package cmd

import (
	"fmt"
	"go/types"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/landreg/registry-backend/cmd/utils"
	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/serve/auth"
)

type tokenCmd struct{}

// Command mints a signed bearer token for an actor. Meant for operators and
// local development; production tokens come from the identity provider.
func (c *tokenCmd) Command() *cobra.Command {
	var jwtSecret string
	var actorID string
	var org string
	var displayName string
	cfgOpts := utils.ConfigOptions{
		{
			Name:      "jwt-secret",
			Usage:     "The shared secret used to sign the token. Prompted for when not provided.",
			OptType:   types.String,
			ConfigKey: &jwtSecret,
			Required:  false,
		},
		{
			Name:      "actor-id",
			Usage:     "The actor's identifier. For citizens this is the national identity number.",
			OptType:   types.String,
			ConfigKey: &actorID,
			Required:  true,
		},
		{
			Name:      "org",
			Usage:     `The actor's organization: "Org1" (authority), "Org2" (government office) or "Org3" (citizens).`,
			OptType:   types.String,
			ConfigKey: &org,
			Required:  true,
		},
		{
			Name:      "display-name",
			Usage:     "The actor's display name, carried into notifications and audit output.",
			OptType:   types.String,
			ConfigKey: &displayName,
			Required:  false,
		},
	}

	cmd := &cobra.Command{
		Use:               "token",
		Short:             "Mint a signed actor bearer token",
		PersistentPreRunE: utils.DefaultPersistentPreRunE(cfgOpts),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jwtSecret == "" {
				prompter, err := utils.NewDefaultPasswordPrompter("Enter the JWT secret:", os.Stdin, os.Stdout)
				if err != nil {
					return fmt.Errorf("creating secret prompter: %w", err)
				}
				jwtSecret, err = prompter.Run()
				if err != nil {
					return fmt.Errorf("prompting for the JWT secret: %w", err)
				}
			}

			jwtManager, err := auth.NewJWTManager(jwtSecret, auth.DefaultTokenLifetime)
			if err != nil {
				return fmt.Errorf("instantiating JWT manager: %w", err)
			}

			actor := entities.Actor{ID: actorID, Org: entities.Organization(org), DisplayName: displayName}
			token, err := jwtManager.GenerateToken(actor, time.Now())
			if err != nil {
				return fmt.Errorf("generating token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}

	if err := cfgOpts.Init(cmd); err != nil {
		applog.Fatalf("Error initializing a config option: %s", err.Error())
	}

	return cmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/landreg/registry-backend/internal/applog"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "registry-backend",
	Short: "Land Registry Backend Server",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			applog.Fatalf("Error calling help command: %s", err.Error())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		applog.Fatalf("Error executing root command: %s", err.Error())
	}
}

func init() {
	rootCmd.AddCommand((&serveCmd{}).Command())
	rootCmd.AddCommand((&migrateCmd{}).Command())
	rootCmd.AddCommand((&tokenCmd{}).Command())
}

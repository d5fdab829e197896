package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/config"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/store/pg"
)

var (
	version = "dev"
	commit  = "none"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "epicevents",
	Short: "Epic Events CRM - manage customers, contracts and events from the terminal",
	Long: `Epic Events CRM command line interface.

Authenticate with "epicevents login", then start the interactive
session with "epicevents menu". What the menu offers depends on the
permission flags of your role.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: config.yaml in the user config dir)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Epic Events CRM %s\n", rootCmd.Version)
	},
}

// loadConfig reads configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(configFlag)
}

func openStore(cfg *config.Config) (*pg.Store, error) {
	return pg.Open(cfg.Database.DSN)
}

func tokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	store := auth.NewFileTokenStore(cfg.Session.Path)
	return auth.NewTokenManager(store, cfg.Auth.Secret, cfg.Auth.TokenTTL())
}

func main() {
	obs.Init()
	obs.SetBuildInfo(version, commit)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

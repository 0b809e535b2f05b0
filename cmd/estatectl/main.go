package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var configPath string
	rootCmd := &cobra.Command{
		Use:           "estatectl",
		Short:         "Real estate backend maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	rootCmd.AddCommand(
		migrateCmd(&configPath),
		seedCmd(&configPath),
		tokensCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/community-cms-api/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "community-cms-api",
	Short:         "Content API for community pages, FAQs, reviews and resources",
	Long:          `community-cms-api serves the admin and public REST API of the marketing site. Without a subcommand it runs the HTTP server.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.New("error", os.Getenv("ENV"))
		log.Error().Err(err).Str("command", commandName()).Msg("Command failed")
		os.Exit(1)
	}
}

func commandName() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "serve"
}

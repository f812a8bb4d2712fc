package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Google review maintenance",
}

var reviewsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the latest Google reviews and store them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		synced, err := a.services.Review.Sync(ctx)
		if err != nil {
			return err
		}
		a.log.Info().Int("synced", synced).Msg("Review sync finished")
		return nil
	},
}

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Uploaded file maintenance",
}

var sweepDryRun bool

var uploadsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove stored files no document references",
	Long:  `Remove hero images and resources that no document references and that are older than SWEEP_GRACE_PERIOD.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		result, err := a.services.Upload.Sweep(ctx, sweepDryRun)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	uploadsSweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "report orphans without removing them")

	reviewsCmd.AddCommand(reviewsSyncCmd)
	uploadsCmd.AddCommand(uploadsSweepCmd)
	rootCmd.AddCommand(reviewsCmd, uploadsCmd)
}

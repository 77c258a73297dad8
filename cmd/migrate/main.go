package main

import (
	"fmt"
	"os"

	"go-profile-backend/config"
	"go-profile-backend/pkg/database"

	"github.com/spf13/cobra"
)

func main() {
	var (
		direction string
		steps     int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.DBUrl == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if err := database.Migrate(cfg.DBUrl, direction, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", direction)
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "up", "up or down")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

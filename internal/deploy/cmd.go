package deploy

import (
	"fmt"
	"log/slog"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "deploy",
	Short: "Run the deploy scripts against the selected network",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.With("network", configs.Values.Network).With("tags", configs.Values.Tags).Info("starting deploy command. Validating config")

		if err := configs.Values.Validate(); err != nil {
			return err
		}

		slog.Info("config validation successful. Running deploy scripts...")

		if err := start(cmd.Context(), &configs.Values); err != nil {
			return fmt.Errorf("error occurred deploying: %w", err)
		}

		slog.Info("deployment finished successfully")

		return nil
	},
}

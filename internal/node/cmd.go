package node

import (
	"fmt"
	"log/slog"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/compose-network/fundme-deployer/internal/infra/docker"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "node",
	Short: "Commands for running a local development chain",
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an anvil chain in docker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(service *Service) error {
			slog.With("config", configs.Values.Node).Info("starting dev node")
			if err := service.Start(cmd.Context()); err != nil {
				return fmt.Errorf("error occurred starting dev node: %w", err)
			}
			return nil
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop and remove the development chain container",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(service *Service) error {
			if err := service.Stop(cmd.Context()); err != nil {
				return fmt.Errorf("error occurred stopping dev node: %w", err)
			}
			slog.Info("dev node stopped")
			return nil
		})
	},
}

func init() {
	CMD.AddCommand(startCmd)
	CMD.AddCommand(stopCmd)
}

func withService(fn func(service *Service) error) error {
	client, err := docker.New()
	if err != nil {
		return fmt.Errorf("failed to create docker client: %w", err)
	}
	defer client.Close()

	return fn(NewService(client, configs.Values.Node))
}

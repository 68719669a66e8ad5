package deploy

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/infra/filesystem/json"
	"github.com/spf13/cobra"
)

var CompileCMD = &cobra.Command{
	Use:   "compile",
	Short: "Compile the contracts with forge",
	Long:  "Compiles the Solidity contracts in contracts-dir and writes their ABIs and bytecodes to artifacts-file",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("running contract compilation command")

		if configs.Values.ContractsDir == "" || configs.Values.ArtifactsFile == "" {
			return fmt.Errorf("contracts-dir and artifacts-file are required")
		}

		compiler := contracts.NewCompiler(configs.Values.ContractsDir, configs.Values.ArtifactsFile, json.NewWriter())

		contractsToCompile := slices.Sorted(maps.Keys(contracts.Contracts))
		slog.Info("starting contract compilation", "contracts", contractsToCompile)
		if err := compiler.Compile(cmd.Context(), contractsToCompile); err != nil {
			return fmt.Errorf("contract compilation failed: %w", err)
		}

		slog.Info("contract compilation completed successfully")

		return nil
	},
}

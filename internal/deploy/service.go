package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/infra/filesystem/json"
	"github.com/compose-network/fundme-deployer/internal/output"
	"github.com/compose-network/fundme-deployer/internal/pricefeed"
	"github.com/compose-network/fundme-deployer/internal/scripts"
)

const (
	rpcAttempts = 30
	rpcInterval = 2 * time.Second
)

func start(ctx context.Context, cfg *configs.Config) error {
	networkName, network, err := cfg.SelectedNetwork()
	if err != nil {
		return err
	}

	slog.With("network", networkName).With("chain_id", network.ChainID).Info("waiting for network RPC")
	client, err := deployments.WaitForRPC(ctx, network.RPCURL, rpcAttempts, rpcInterval)
	if err != nil {
		return err
	}
	defer client.Close()

	return run(ctx, cfg, client)
}

// run executes the deploy scripts over an already connected backend.
func run(ctx context.Context, cfg *configs.Config, backend deployments.Backend) error {
	networkName, network, err := cfg.SelectedNetwork()
	if err != nil {
		return err
	}

	slog.With("path", cfg.ArtifactsFile).Info("loading compiled contracts")
	artifacts, err := contracts.LoadCompiledContracts(cfg.ArtifactsFile)
	if err != nil {
		return fmt.Errorf("failed to load compiled contracts: %w", err)
	}

	store := deployments.NewStore(cfg.DeploymentsDir, string(networkName), json.NewReader(), json.NewWriter())
	manager, err := deployments.NewManager(ctx, backend, cfg.Deployer.PrivateKey, artifacts, store)
	if err != nil {
		return err
	}

	if manager.ChainID() != network.ChainID {
		return fmt.Errorf("network '%s' expects chain %d but RPC reports chain %d", networkName, network.ChainID, manager.ChainID())
	}

	table, err := cfg.PriceFeedTable()
	if err != nil {
		return err
	}

	env := &scripts.Environment{
		NetworkName: networkName,
		Network:     network,
		Development: cfg.IsDevelopmentChain(network.ChainID),
		Mocks:       cfg.Mocks,
		Deployments: manager,
		PriceFeeds:  pricefeed.NewResolver(cfg.DevelopmentChainIDs, table, manager),
	}
	if cfg.Verify && cfg.EtherscanAPIKey != "" && !env.Development {
		env.Verifier = contracts.NewVerifier(cfg.ContractsDir, cfg.EtherscanAPIKey)
	}

	slog.
		With("deployer", manager.From().Hex()).
		With("development", env.Development).
		With("verify", env.Verifier != nil).
		Info("deployment environment ready")

	ran, err := scripts.NewRunner(scripts.Registry...).Run(ctx, env, cfg.Tags)
	if err != nil {
		return err
	}
	slog.With("scripts", ran).Info("deploy scripts completed")

	if cfg.OutputFile == "" {
		return nil
	}

	records, err := manager.All()
	if err != nil {
		return err
	}

	return output.NewGenerator(cfg.OutputFile, json.NewWriter()).Generate(string(networkName), network.ChainID, network.RPCURL, manager.From(), records)
}

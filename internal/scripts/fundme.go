package scripts

import (
	"context"
	"fmt"

	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/logger"
)

var DeployFundMe = Script{
	Name: "01-deploy-fund-me",
	Tags: []string{TagAll, TagFundMe},
	Run:  deployFundMe,
}

func deployFundMe(ctx context.Context, env *Environment) error {
	log := logger.Named("deploy_fund_me")
	chainID := env.Deployments.ChainID()

	ethUsdPriceFeedAddress, err := env.PriceFeeds.Resolve(ctx, chainID)
	if err != nil {
		return fmt.Errorf("failed to resolve ETH/USD price feed: %w", err)
	}

	log.Info("----------------------------------------------------")
	log.
		With("network", env.NetworkName).
		With("price_feed", ethUsdPriceFeedAddress.Hex()).
		Info("Deploying FundMe and waiting for confirmations...")

	args := []any{ethUsdPriceFeedAddress}
	fundMe, err := env.Deployments.Deploy(ctx, contracts.ContractNameFundMe, deployments.DeployOptions{
		Args:              args,
		WaitConfirmations: env.Network.Confirmations(),
	})
	if err != nil {
		return err
	}

	log.With("address", fundMe.Address.Hex()).Info("FundMe deployed")

	if env.Development || env.Verifier == nil {
		return nil
	}

	artifact, err := env.Deployments.Artifact(contracts.ContractNameFundMe)
	if err != nil {
		return err
	}
	if err := env.Verifier.Verify(ctx, chainID, fundMe.Address, contracts.ContractNameFundMe, artifact, args...); err != nil {
		return err
	}

	log.Info("----------------------------------------------------")

	return nil
}

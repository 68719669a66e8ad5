package scripts

import (
	"context"

	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/logger"
)

var DeployMocks = Script{
	Name: "00-deploy-mocks",
	Tags: []string{TagAll, TagMocks},
	Run:  deployMocks,
}

func deployMocks(ctx context.Context, env *Environment) error {
	log := logger.Named("deploy_mocks")

	if !env.Development {
		log.With("network", env.NetworkName).Info("live network, mocks are not deployed")
		return nil
	}

	answer, err := env.Mocks.Answer()
	if err != nil {
		return err
	}

	log.With("network", env.NetworkName).Info("local network detected, deploying mocks")
	record, err := env.Deployments.Deploy(ctx, contracts.ContractNameMockV3Aggregator, deployments.DeployOptions{
		Args:              []any{env.Mocks.Decimals, answer},
		WaitConfirmations: env.Network.Confirmations(),
	})
	if err != nil {
		return err
	}

	log.With("address", record.Address.Hex()).Info("mocks deployed")
	log.Info("----------------------------------------------------")

	return nil
}

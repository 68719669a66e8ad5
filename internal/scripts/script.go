package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

const (
	TagAll    = "all"
	TagMocks  = "mocks"
	TagFundMe = "fundme"
)

type (
	Deployer interface {
		Deploy(ctx context.Context, name contracts.ContractName, opts deployments.DeployOptions) (deployments.Record, error)
		Get(name contracts.ContractName) (deployments.Record, error)
		Artifact(name contracts.ContractName) (contracts.CompiledContract, error)
		ChainID() uint64
	}

	PriceFeedResolver interface {
		Resolve(ctx context.Context, chainID uint64) (common.Address, error)
	}

	Verifier interface {
		Verify(ctx context.Context, chainID uint64, address common.Address, name contracts.ContractName, contract contracts.CompiledContract, constructorArgs ...any) error
	}

	// Environment is what a script sees of the network it runs against.
	Environment struct {
		NetworkName configs.NetworkName
		Network     configs.Network
		Development bool
		Mocks       configs.Mocks
		Deployments Deployer
		PriceFeeds  PriceFeedResolver
		// Verifier is nil when verification is disabled.
		Verifier Verifier
	}

	Script struct {
		Name string
		Tags []string
		Run  func(ctx context.Context, env *Environment) error
	}

	Runner struct {
		scripts []Script
		logger  *slog.Logger
	}
)

// Registry lists the deployment scripts in execution order.
var Registry = []Script{
	DeployMocks,
	DeployFundMe,
}

func NewRunner(scripts ...Script) *Runner {
	return &Runner{
		scripts: scripts,
		logger:  logger.Named("scripts_runner"),
	}
}

// Run executes, in registration order, every script sharing a tag with tags.
// No tags selects every script. It returns the names of the scripts it ran.
func (r *Runner) Run(ctx context.Context, env *Environment, tags []string) ([]string, error) {
	var ran []string
	for _, script := range r.scripts {
		if !selected(script, tags) {
			r.logger.With("script", script.Name).Debug("script not selected by tags")
			continue
		}

		r.logger.With("script", script.Name).With("network", env.NetworkName).Info("running deploy script")
		if err := script.Run(ctx, env); err != nil {
			return ran, fmt.Errorf("deploy script %s failed: %w", script.Name, err)
		}
		ran = append(ran, script.Name)
	}

	return ran, nil
}

func selected(script Script, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if slices.Contains(script.Tags, tag) {
			return true
		}
	}
	return false
}

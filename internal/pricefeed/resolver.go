// Package pricefeed picks the ETH/USD oracle address FundMe is deployed with.
package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnsupportedChain = errors.New("no ETH/USD price feed configured for chain")
	ErrZeroAddress      = errors.New("resolved ETH/USD price feed is the zero address")
)

// Getter returns previously recorded deployments.
type Getter interface {
	Get(name contracts.ContractName) (deployments.Record, error)
}

type Resolver struct {
	developmentChainIDs []uint64
	table               map[uint64]common.Address
	deployments         Getter
	logger              *slog.Logger
}

func NewResolver(developmentChainIDs []uint64, table map[uint64]common.Address, deployments Getter) *Resolver {
	return &Resolver{
		developmentChainIDs: developmentChainIDs,
		table:               table,
		deployments:         deployments,
		logger:              logger.Named("pricefeed_resolver"),
	}
}

// Resolve returns the mock aggregator address on development chains and the
// configured feed everywhere else.
func (r *Resolver) Resolve(ctx context.Context, chainID uint64) (common.Address, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}

	var (
		address common.Address
		source  string
	)

	if slices.Contains(r.developmentChainIDs, chainID) {
		record, err := r.deployments.Get(contracts.ContractNameMockV3Aggregator)
		if err != nil {
			return common.Address{}, fmt.Errorf("chain %d uses mocks but %s is not deployed: %w", chainID, contracts.ContractNameMockV3Aggregator, err)
		}
		address, source = record.Address, "mock"
	} else {
		feed, ok := r.table[chainID]
		if !ok {
			return common.Address{}, fmt.Errorf("%w %d", ErrUnsupportedChain, chainID)
		}
		address, source = feed, "network-config"
	}

	if address == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w (chain %d, source %s)", ErrZeroAddress, chainID, source)
	}

	r.logger.
		With("chain_id", chainID).
		With("source", source).
		With("address", address.Hex()).
		Debug("price feed resolved")

	return address, nil
}

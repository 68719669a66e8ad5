package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Verifier submits deployed contracts to the block explorer through forge
type Verifier struct {
	contractsRootDir string
	apiKey           string
	run              commandRunner
	logger           *slog.Logger
}

func NewVerifier(contractsRootDir, apiKey string) *Verifier {
	return &Verifier{
		contractsRootDir: contractsRootDir,
		apiKey:           apiKey,
		run:              runCommand,
		logger:           logger.Named("contracts_verifier"),
	}
}

// Verify verifies the source of a deployed contract. A contract the explorer
// already knows counts as verified.
func (v *Verifier) Verify(ctx context.Context, chainID uint64, address common.Address, name ContractName, contract CompiledContract, constructorArgs ...any) error {
	args, err := v.verifyArgs(chainID, address, name, contract, constructorArgs...)
	if err != nil {
		return err
	}

	v.logger.
		With("contract", name).
		With("address", address.Hex()).
		With("chain_id", chainID).
		Info("verifying contract")

	output, err := v.run(ctx, v.contractsRootDir, "forge", args...)
	if err != nil {
		if alreadyVerified(string(output)) || alreadyVerified(err.Error()) {
			v.logger.With("contract", name).Info("contract is already verified")
			return nil
		}
		return fmt.Errorf("failed to verify %s at %s: %w", name, address.Hex(), err)
	}

	v.logger.With("contract", name).Info("contract verified")

	return nil
}

func (v *Verifier) verifyArgs(chainID uint64, address common.Address, name ContractName, contract CompiledContract, constructorArgs ...any) ([]string, error) {
	args := []string{
		"verify-contract",
		"--chain", strconv.FormatUint(chainID, 10),
		"--etherscan-api-key", v.apiKey,
		"--watch",
	}

	if len(constructorArgs) > 0 {
		packed, err := contract.PackConstructor(constructorArgs...)
		if err != nil {
			return nil, err
		}
		args = append(args, "--constructor-args", hexutil.Encode(packed))
	}

	return append(args, address.Hex(), string(name)), nil
}

func alreadyVerified(message string) bool {
	return strings.Contains(strings.ToLower(message), "already verified")
}

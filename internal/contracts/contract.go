package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type (
	ContractName     string
	CompiledContract struct {
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}
)

const (
	ContractNameFundMe           ContractName = "FundMe"
	ContractNameMockV3Aggregator ContractName = "MockV3Aggregator"
)

var Contracts = map[ContractName]struct{}{
	ContractNameFundMe:           {},
	ContractNameMockV3Aggregator: {},
}

// BytecodeHash identifies the creation code a deployment was made from.
func (c CompiledContract) BytecodeHash() common.Hash {
	return crypto.Keccak256Hash(c.Bytecode)
}

// PackConstructor ABI-encodes constructor arguments without the bytecode prefix.
func (c CompiledContract) PackConstructor(args ...any) ([]byte, error) {
	packed, err := c.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor arguments: %w", err)
	}
	return packed, nil
}

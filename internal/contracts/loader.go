package contracts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// LoadCompiledContracts loads compiled contracts from the artifacts file
// produced by the compile command.
func LoadCompiledContracts(path string) (map[ContractName]CompiledContract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled contracts from '%s': %w", path, err)
	}

	return parseContracts(data)
}

// parseContracts parses contract JSON data into CompiledContract map
func parseContracts(data []byte) (map[ContractName]CompiledContract, error) {
	var result map[string]struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	loadedContracts := make(map[ContractName]CompiledContract)

	for name, contract := range result {
		if _, ok := Contracts[ContractName(name)]; !ok {
			continue
		}

		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		bytecode := common.FromHex(strings.TrimSpace(contract.Bytecode))
		if len(bytecode) == 0 {
			return nil, fmt.Errorf("bytecode for %s is empty", name)
		}

		loadedContracts[ContractName(name)] = CompiledContract{
			ABI:      parsedABI,
			RawABI:   string(contract.ABI),
			Bytecode: bytecode,
		}
	}

	for name := range Contracts {
		if _, ok := loadedContracts[name]; !ok {
			return nil, fmt.Errorf("compiled contracts are missing %s", name)
		}
	}

	return loadedContracts, nil
}

package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/compose-network/fundme-deployer/internal/infra/filesystem"
	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Compiler compiles the Solidity project with forge
type Compiler struct {
	contractsRootDir string
	outputFile       string
	writer           filesystem.Writer
	run              commandRunner
	logger           *slog.Logger
}

// NewCompiler creates a new contract compiler
func NewCompiler(contractsRootDir, outputFile string, writer filesystem.Writer) *Compiler {
	return &Compiler{
		contractsRootDir: contractsRootDir,
		outputFile:       outputFile,
		writer:           writer,
		run:              runCommand,
		logger:           logger.Named("contracts_compiler"),
	}
}

// Compile compiles Solidity contracts and persists the output
func (c *Compiler) Compile(ctx context.Context, contractNames []ContractName) error {
	c.logger.
		With("contracts_dir", c.contractsRootDir).
		Info("starting contract compilation")

	if _, err := c.run(ctx, c.contractsRootDir, "forge", "build"); err != nil {
		return fmt.Errorf("failed to build contracts: %w", err)
	}

	jsonContracts := make(map[string]map[string]any)
	for _, name := range contractNames {
		c.logger.With("name", name).Info("inspecting contract")

		abiJSON, bytecodeHex, err := c.compileContractRaw(ctx, string(name))
		if err != nil {
			return fmt.Errorf("failed to compile %s: %w", name, err)
		}

		jsonContracts[string(name)] = map[string]any{
			"abi":      json.RawMessage(abiJSON),
			"bytecode": bytecodeHex,
		}
	}

	if err := c.writer.WriteJSON(c.outputFile, jsonContracts); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.outputFile, err)
	}

	c.logger.With("output", c.outputFile).Info("contracts compiled successfully")

	return nil
}

// compileContractRaw returns the raw JSON ABI and the 0x-prefixed creation bytecode
func (c *Compiler) compileContractRaw(ctx context.Context, contractName string) ([]byte, string, error) {
	abiOutput, err := c.run(ctx, c.contractsRootDir, "forge", "inspect", contractName, "abi", "--json")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get ABI for %s: %w", contractName, err)
	}

	if _, err := abi.JSON(strings.NewReader(string(abiOutput))); err != nil {
		return nil, "", fmt.Errorf("failed to parse ABI for %s: %w", contractName, err)
	}

	bytecodeOutput, err := c.run(ctx, c.contractsRootDir, "forge", "inspect", contractName, "bytecode")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bytecode for %s: %w", contractName, err)
	}

	bytecode := strings.TrimSpace(string(bytecodeOutput))
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}

	return abiOutput, bytecode, nil
}

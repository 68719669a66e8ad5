package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/infra/filesystem"
	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Generator writes a YAML summary of the deployments on one network.
type Generator struct {
	path   string
	writer filesystem.Writer
	logger *slog.Logger
}

func NewGenerator(path string, writer filesystem.Writer) *Generator {
	return &Generator{
		path:   path,
		writer: writer,
		logger: logger.Named("output_generator"),
	}
}

func (g *Generator) Generate(network string, chainID uint64, rpcURL string, deployer common.Address, records map[contracts.ContractName]deployments.Record) error {
	model := Model{
		Network:   network,
		ChainID:   chainID,
		RPCURL:    redactURL(rpcURL),
		Deployer:  deployer,
		Contracts: make(map[string]ContractConfig, len(records)),
	}

	for name, record := range records {
		model.Contracts[strings.ToLower(string(name))] = ContractConfig{
			Address:         record.Address,
			TransactionHash: record.TransactionHash,
			ABI:             SingleQuotedString(compactJSON(record.ABI)),
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(model); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if err := g.writer.WriteBytes(g.path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.path, err)
	}

	g.logger.With("path", g.path).With("contracts", len(records)).Info("deployment summary written")

	return nil
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

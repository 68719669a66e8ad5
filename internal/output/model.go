package output

import (
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

type (
	Model struct {
		Network   string                    `yaml:"network"`
		ChainID   uint64                    `yaml:"chain-id"`
		RPCURL    string                    `yaml:"rpc-url"`
		Deployer  common.Address            `yaml:"deployer"`
		Contracts map[string]ContractConfig `yaml:"contracts"`
	}

	ContractConfig struct {
		Address         common.Address     `yaml:"address"`
		TransactionHash common.Hash        `yaml:"tx-hash"`
		ABI             SingleQuotedString `yaml:"abi"`
	}

	SingleQuotedString string
)

func (s SingleQuotedString) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.SingleQuotedStyle,
		Value: string(s),
	}
	return node, nil
}

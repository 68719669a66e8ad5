package configs

import (
	"errors"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	NetworkName string

	Config struct {
		LogLevel            string                     `mapstructure:"log-level"`
		Network             NetworkName                `mapstructure:"network"`
		Networks            map[NetworkName]Network    `mapstructure:"networks"`
		NetworkConfig       map[string]PriceFeedConfig `mapstructure:"network-config"`
		DevelopmentChainIDs []uint64                   `mapstructure:"development-chain-ids"`
		Mocks               Mocks                      `mapstructure:"mocks"`
		Deployer            Deployer                   `mapstructure:"deployer"`
		ArtifactsFile       string                     `mapstructure:"artifacts-file"`
		ContractsDir        string                     `mapstructure:"contracts-dir"`
		DeploymentsDir      string                     `mapstructure:"deployments-dir"`
		OutputFile          string                     `mapstructure:"output-file"`
		Tags                []string                   `mapstructure:"tags"`
		Verify              bool                       `mapstructure:"verify"`
		EtherscanAPIKey     string                     `mapstructure:"-"`
		Node                Node                       `mapstructure:"node"`
	}

	Network struct {
		ChainID            uint64 `mapstructure:"chain-id"`
		RPCURL             string `mapstructure:"rpc-url"`
		BlockConfirmations uint64 `mapstructure:"block-confirmations"`
	}

	// PriceFeedConfig is one row of the static chain id to oracle table.
	PriceFeedConfig struct {
		Name            string `mapstructure:"name"`
		EthUsdPriceFeed string `mapstructure:"eth-usd-price-feed"`
	}

	Mocks struct {
		Decimals      uint8  `mapstructure:"decimals"`
		InitialAnswer string `mapstructure:"initial-answer"`
	}

	Deployer struct {
		PrivateKey string `mapstructure:"private-key"`
	}

	Node struct {
		Image         string `mapstructure:"image"`
		Port          int    `mapstructure:"port"`
		ContainerName string `mapstructure:"container-name"`
		ChainID       uint64 `mapstructure:"chain-id"`
	}
)

const NetworkNameLocalhost NetworkName = "localhost"

func (c *Config) Validate() error {
	var errs []error

	if c.Network == "" {
		errs = append(errs, errors.New("network is required"))
	} else if network, exists := c.Networks[c.Network]; !exists {
		errs = append(errs, fmt.Errorf("networks.%s is not configured", c.Network))
	} else {
		if network.ChainID == 0 {
			errs = append(errs, fmt.Errorf("networks.%s.chain-id is required", c.Network))
		}
		if network.RPCURL == "" {
			errs = append(errs, fmt.Errorf("networks.%s.rpc-url is required", c.Network))
		}
	}

	if c.Deployer.PrivateKey == "" {
		errs = append(errs, errors.New("deployer.private-key is required (or set PRIVATE_KEY)"))
	}
	if c.ArtifactsFile == "" {
		errs = append(errs, errors.New("artifacts-file is required"))
	}
	if c.DeploymentsDir == "" {
		errs = append(errs, errors.New("deployments-dir is required"))
	}

	if _, err := c.PriceFeedTable(); err != nil {
		errs = append(errs, err)
	}

	if len(c.DevelopmentChainIDs) > 0 {
		if _, err := c.Mocks.Answer(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// SelectedNetwork returns the network chosen by the network key.
func (c *Config) SelectedNetwork() (NetworkName, Network, error) {
	network, ok := c.Networks[c.Network]
	if !ok {
		return "", Network{}, fmt.Errorf("network '%s' is not configured", c.Network)
	}

	return c.Network, network, nil
}

func (c *Config) IsDevelopmentChain(chainID uint64) bool {
	return slices.Contains(c.DevelopmentChainIDs, chainID)
}

// PriceFeedTable converts the network-config section into a chain id keyed address table.
func (c *Config) PriceFeedTable() (map[uint64]common.Address, error) {
	table := make(map[uint64]common.Address, len(c.NetworkConfig))
	for key, feed := range c.NetworkConfig {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("network-config key '%s' is not a chain id: %w", key, err)
		}
		if !common.IsHexAddress(feed.EthUsdPriceFeed) {
			return nil, fmt.Errorf("network-config.%s.eth-usd-price-feed '%s' is not a valid address", key, feed.EthUsdPriceFeed)
		}
		table[chainID] = common.HexToAddress(feed.EthUsdPriceFeed)
	}

	return table, nil
}

// ApplySecrets overlays values read from the environment.
func (c *Config) ApplySecrets(s Secrets) {
	if s.PrivateKey != "" {
		c.Deployer.PrivateKey = s.PrivateKey
	}
	if s.EtherscanAPIKey != "" {
		c.EtherscanAPIKey = s.EtherscanAPIKey
	}

	for name, rpcURL := range s.RPCURLs {
		networkName := NetworkName(strings.ToLower(name))
		network, ok := c.Networks[networkName]
		if !ok {
			continue
		}
		network.RPCURL = rpcURL
		c.Networks[networkName] = network
	}
}

// Confirmations is the number of blocks to wait for, never less than one.
func (n Network) Confirmations() uint64 {
	if n.BlockConfirmations == 0 {
		return 1
	}
	return n.BlockConfirmations
}

// Answer parses the initial answer handed to the mock aggregator.
func (m Mocks) Answer() (*big.Int, error) {
	answer, ok := new(big.Int).SetString(m.InitialAnswer, 10)
	if !ok {
		return nil, fmt.Errorf("mocks.initial-answer must be a base 10 integer, got '%s'", m.InitialAnswer)
	}
	return answer, nil
}

func (c Config) clone() Config {
	c.Networks = maps.Clone(c.Networks)
	c.NetworkConfig = maps.Clone(c.NetworkConfig)
	c.DevelopmentChainIDs = slices.Clone(c.DevelopmentChainIDs)
	c.Tags = slices.Clone(c.Tags)
	return c
}

package configs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets are read from the process environment and never from config files.
type Secrets struct {
	PrivateKey      string            `env:"PRIVATE_KEY"`
	EtherscanAPIKey string            `env:"ETHERSCAN_API_KEY"`
	RPCURLs         map[string]string `env:"RPC_URLS" envKeyValSeparator:"="`
}

// LoadSecrets parses Secrets from the environment.
func LoadSecrets() (Secrets, error) {
	secrets, err := env.ParseAs[Secrets]()
	if err != nil {
		return Secrets{}, fmt.Errorf("failed to parse secrets from environment: %w", err)
	}

	return secrets, nil
}

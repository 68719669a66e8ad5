package deployments

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	defaultDeployTimeout = 10 * time.Minute
	defaultPollInterval  = 2 * time.Second
)

type (
	// Backend is the chain access the manager needs. *ethclient.Client satisfies it.
	Backend interface {
		bind.ContractBackend
		bind.DeployBackend
		ChainID(ctx context.Context) (*big.Int, error)
	}

	DeployOptions struct {
		Args []any
		// WaitConfirmations is the number of blocks the deployment must be
		// buried under before Deploy returns. Zero returns right after the
		// transaction is sent.
		WaitConfirmations uint64
		// GasLimit of zero lets the node estimate it.
		GasLimit uint64
	}

	// Manager deploys contracts from compiled artifacts and records the results.
	Manager struct {
		backend       Backend
		privateKey    *ecdsa.PrivateKey
		from          common.Address
		chainID       *big.Int
		artifacts     map[contracts.ContractName]contracts.CompiledContract
		store         *Store
		deployTimeout time.Duration
		pollInterval  time.Duration
		logger        *slog.Logger
	}
)

// NewManager fetches the chain id from the backend and makes sure the store
// does not hold records of a different chain.
func NewManager(ctx context.Context, backend Backend, privateKeyHex string, artifacts map[contracts.ContractName]contracts.CompiledContract, store *Store) (*Manager, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	storedChainID, ok, err := store.ChainID()
	if err != nil {
		return nil, err
	}
	if ok && storedChainID != chainID.Uint64() {
		return nil, fmt.Errorf("deployments in '%s' belong to chain %d, connected chain is %d", store.Dir(), storedChainID, chainID)
	}

	return &Manager{
		backend:       backend,
		privateKey:    privateKey,
		from:          crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:       chainID,
		artifacts:     artifacts,
		store:         store,
		deployTimeout: defaultDeployTimeout,
		pollInterval:  defaultPollInterval,
		logger:        logger.Named("deployments_manager"),
	}, nil
}

func (m *Manager) From() common.Address {
	return m.from
}

func (m *Manager) ChainID() uint64 {
	return m.chainID.Uint64()
}

func (m *Manager) Artifact(name contracts.ContractName) (contracts.CompiledContract, error) {
	artifact, ok := m.artifacts[name]
	if !ok {
		return contracts.CompiledContract{}, fmt.Errorf("no compiled artifact for %s", name)
	}
	return artifact, nil
}

// Get returns a previously recorded deployment.
func (m *Manager) Get(name contracts.ContractName) (Record, error) {
	return m.store.Get(name)
}

// All returns every recorded deployment on the network.
func (m *Manager) All() (map[contracts.ContractName]Record, error) {
	return m.store.All()
}

// Deploy deploys name with opts, reusing an existing deployment when the
// bytecode and constructor args are unchanged and code is still present at
// the recorded address.
func (m *Manager) Deploy(ctx context.Context, name contracts.ContractName, opts DeployOptions) (Record, error) {
	artifact, err := m.Artifact(name)
	if err != nil {
		return Record{}, err
	}

	if opts.Args == nil {
		opts.Args = []any{}
	}
	args, err := json.Marshal(opts.Args)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode constructor args of %s: %w", name, err)
	}

	if existing, ok, err := m.reusable(ctx, name, artifact, args); err != nil {
		return Record{}, err
	} else if ok {
		m.logger.
			With("contract", name).
			With("address", existing.Address.Hex()).
			Info("reusing deployment")
		return existing, nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.deployTimeout)
	defer cancel()

	auth, err := bind.NewKeyedTransactorWithChainID(m.privateKey, m.chainID)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.GasLimit = opts.GasLimit

	address, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, m.backend, opts.Args...)
	if err != nil {
		return Record{}, fmt.Errorf("failed to deploy %s: %w", name, err)
	}

	m.logger.
		With("contract", name).
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Info("contract deployment transaction sent")

	record := Record{
		Address:         address,
		ABI:             json.RawMessage(artifact.RawABI),
		TransactionHash: tx.Hash(),
		Args:            args,
		BytecodeHash:    artifact.BytecodeHash(),
		DeployedAt:      time.Now().UTC(),
	}

	if opts.WaitConfirmations > 0 {
		receipt, err := m.waitConfirmed(ctx, tx, opts.WaitConfirmations)
		if err != nil {
			return Record{}, fmt.Errorf("failed waiting for %s deployment: %w", name, err)
		}
		record.Receipt = receipt
	}

	if err := m.store.Save(name, m.ChainID(), record); err != nil {
		return Record{}, err
	}

	m.logger.
		With("contract", name).
		With("address", address.Hex()).
		Info("deployed")

	return record, nil
}

func (m *Manager) reusable(ctx context.Context, name contracts.ContractName, artifact contracts.CompiledContract, args json.RawMessage) (Record, bool, error) {
	existing, err := m.store.Get(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}

	if existing.BytecodeHash != artifact.BytecodeHash() || !sameArgs(existing.Args, args) {
		return Record{}, false, nil
	}

	code, err := m.backend.CodeAt(ctx, existing.Address, nil)
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to get code of %s at %s: %w", name, existing.Address.Hex(), err)
	}

	return existing, len(code) > 0, nil
}

func (m *Manager) waitConfirmed(ctx context.Context, tx *types.Transaction, confirmations uint64) (*Receipt, error) {
	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("contract deployment failed with status %d", receipt.Status)
	}

	minedAt := receipt.BlockNumber.Uint64()
	target := minedAt + confirmations - 1

	for {
		head, err := m.backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get head block: %w", err)
		}
		if head.Number.Uint64() >= target {
			return &Receipt{
				BlockNumber:   minedAt,
				GasUsed:       receipt.GasUsed,
				Status:        receipt.Status,
				Confirmations: head.Number.Uint64() - minedAt + 1,
			}, nil
		}

		m.logger.
			With("tx_hash", tx.Hash().Hex()).
			With("head", head.Number.Uint64()).
			With("target", target).
			Debug("waiting for confirmations")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.pollInterval):
		}
	}
}

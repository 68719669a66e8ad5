package deployments

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type (
	// Record is what gets persisted for every deployed contract.
	Record struct {
		Address         common.Address  `json:"address"`
		ABI             json.RawMessage `json:"abi"`
		TransactionHash common.Hash     `json:"transactionHash"`
		Receipt         *Receipt        `json:"receipt,omitempty"`
		Args            json.RawMessage `json:"args"`
		BytecodeHash    common.Hash     `json:"bytecodeHash"`
		DeployedAt      time.Time       `json:"deployedAt"`
	}

	Receipt struct {
		BlockNumber   uint64 `json:"blockNumber"`
		GasUsed       uint64 `json:"gasUsed"`
		Status        uint64 `json:"status"`
		Confirmations uint64 `json:"confirmations"`
	}
)

// sameArgs compares constructor args ignoring JSON formatting.
func sameArgs(stored, current json.RawMessage) bool {
	var a, b bytes.Buffer
	if err := json.Compact(&a, stored); err != nil {
		return false
	}
	if err := json.Compact(&b, current); err != nil {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

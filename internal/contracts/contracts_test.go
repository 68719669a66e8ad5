package contracts

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/compose-network/fundme-deployer/internal/infra/filesystem/json"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "testdata/contracts.json"

func TestLoadCompiledContracts(t *testing.T) {
	loaded, err := LoadCompiledContracts(fixture)
	require.NoError(t, err)

	require.Len(t, loaded, 2)
	assert.NotContains(t, loaded, ContractName("PriceConverter"))

	fundMe := loaded[ContractNameFundMe]
	assert.Len(t, fundMe.ABI.Constructor.Inputs, 1)
	assert.Contains(t, fundMe.ABI.Methods, "getPriceFeed")
	assert.Equal(t, common.FromHex("0x600a600c600039600a6000f3602a60005260206000f3"), fundMe.Bytecode)
	assert.NotEmpty(t, fundMe.RawABI)
}

func TestLoadCompiledContracts_MissingFile(t *testing.T) {
	_, err := LoadCompiledContracts(filepath.Join(t.TempDir(), "contracts.json"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseContracts_MissingRequiredContract(t *testing.T) {
	data := `{"FundMe": {"abi": [], "bytecode": "0x6000"}}`

	_, err := parseContracts([]byte(data))
	assert.ErrorContains(t, err, "missing MockV3Aggregator")
}

func TestParseContracts_EmptyBytecode(t *testing.T) {
	data := `{"FundMe": {"abi": [], "bytecode": "0x"}, "MockV3Aggregator": {"abi": [], "bytecode": "0x6000"}}`

	_, err := parseContracts([]byte(data))
	assert.ErrorContains(t, err, "bytecode for FundMe is empty")
}

func TestParseContracts_InvalidABI(t *testing.T) {
	data := `{"FundMe": {"abi": {"not": "an abi"}, "bytecode": "0x6000"}}`

	_, err := parseContracts([]byte(data))
	assert.ErrorContains(t, err, "failed to parse ABI for FundMe")
}

func TestCompiledContract_PackConstructor(t *testing.T) {
	loaded, err := LoadCompiledContracts(fixture)
	require.NoError(t, err)

	feed := common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")
	packed, err := loaded[ContractNameFundMe].PackConstructor(feed)
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes(feed.Bytes(), 32), packed)

	_, err = loaded[ContractNameMockV3Aggregator].PackConstructor(uint8(8))
	assert.ErrorContains(t, err, "failed to pack constructor arguments")

	packed, err = loaded[ContractNameMockV3Aggregator].PackConstructor(uint8(8), big.NewInt(200000000000))
	require.NoError(t, err)
	assert.Len(t, packed, 64)
}

func TestCompiledContract_BytecodeHashIsStable(t *testing.T) {
	a := CompiledContract{Bytecode: []byte{0x60, 0x00}}
	b := CompiledContract{Bytecode: []byte{0x60, 0x00}}
	c := CompiledContract{Bytecode: []byte{0x60, 0x01}}

	assert.Equal(t, a.BytecodeHash(), b.BytecodeHash())
	assert.NotEqual(t, a.BytecodeHash(), c.BytecodeHash())
}

type recordedCommand struct {
	dir  string
	name string
	args []string
}

func fakeRunner(calls *[]recordedCommand, outputs map[string]string, failures map[string]error) commandRunner {
	return func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, recordedCommand{dir: dir, name: name, args: args})
		key := strings.Join(args, " ")
		return []byte(outputs[key]), failures[key]
	}
}

func TestCompiler_Compile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "artifacts", "contracts.json")
	abiJSON := `[{"type":"constructor","inputs":[{"name":"priceFeed","type":"address"}]}]`
	mockABI := `[{"type":"constructor","inputs":[{"name":"_decimals","type":"uint8"},{"name":"_initialAnswer","type":"int256"}]}]`

	var calls []recordedCommand
	compiler := NewCompiler("/project", outputFile, json.NewWriter())
	compiler.run = fakeRunner(&calls, map[string]string{
		"inspect FundMe abi --json":           abiJSON,
		"inspect FundMe bytecode":             "0x6000\n",
		"inspect MockV3Aggregator abi --json": mockABI,
		"inspect MockV3Aggregator bytecode":   "6001",
	}, nil)

	err := compiler.Compile(context.Background(), []ContractName{ContractNameFundMe, ContractNameMockV3Aggregator})
	require.NoError(t, err)

	require.Len(t, calls, 5)
	assert.Equal(t, []string{"build"}, calls[0].args)
	for _, call := range calls {
		assert.Equal(t, "/project", call.dir)
		assert.Equal(t, "forge", call.name)
	}

	loaded, err := LoadCompiledContracts(outputFile)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00}, loaded[ContractNameFundMe].Bytecode)
	assert.Equal(t, []byte{0x60, 0x01}, loaded[ContractNameMockV3Aggregator].Bytecode)
}

func TestCompiler_Compile_InvalidABI(t *testing.T) {
	var calls []recordedCommand
	compiler := NewCompiler("/project", filepath.Join(t.TempDir(), "contracts.json"), json.NewWriter())
	compiler.run = fakeRunner(&calls, map[string]string{
		"inspect FundMe abi --json": "Error: contract not found",
	}, nil)

	err := compiler.Compile(context.Background(), []ContractName{ContractNameFundMe})
	assert.ErrorContains(t, err, "failed to parse ABI for FundMe")
}

func TestCompiler_Compile_BuildFailure(t *testing.T) {
	var calls []recordedCommand
	compiler := NewCompiler("/project", filepath.Join(t.TempDir(), "contracts.json"), json.NewWriter())
	compiler.run = fakeRunner(&calls, nil, map[string]error{"build": errors.New("compiler error")})

	err := compiler.Compile(context.Background(), []ContractName{ContractNameFundMe})
	assert.ErrorContains(t, err, "failed to build contracts")
	assert.Len(t, calls, 1)
}

func TestVerifier_Verify(t *testing.T) {
	loaded, err := LoadCompiledContracts(fixture)
	require.NoError(t, err)

	feed := common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")
	address := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	var calls []recordedCommand
	verifier := NewVerifier("/project", "api-key")
	verifier.run = fakeRunner(&calls, nil, nil)

	err = verifier.Verify(context.Background(), 11155111, address, ContractNameFundMe, loaded[ContractNameFundMe], feed)
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"verify-contract",
		"--chain", "11155111",
		"--etherscan-api-key", "api-key",
		"--watch",
		"--constructor-args", hexutil.Encode(common.LeftPadBytes(feed.Bytes(), 32)),
		address.Hex(), "FundMe",
	}, calls[0].args)
}

func TestVerifier_Verify_AlreadyVerified(t *testing.T) {
	loaded, err := LoadCompiledContracts(fixture)
	require.NoError(t, err)

	verifier := NewVerifier("/project", "api-key")
	verifier.run = func(context.Context, string, string, ...string) ([]byte, error) {
		return []byte("Contract [src/FundMe.sol:FundMe] is already verified. Skipping verification."), errors.New("exit status 1")
	}

	err = verifier.Verify(context.Background(), 11155111, common.Address{1}, ContractNameFundMe, loaded[ContractNameFundMe], common.Address{2})
	assert.NoError(t, err)
}

func TestVerifier_Verify_Failure(t *testing.T) {
	loaded, err := LoadCompiledContracts(fixture)
	require.NoError(t, err)

	verifier := NewVerifier("/project", "api-key")
	verifier.run = func(context.Context, string, string, ...string) ([]byte, error) {
		return nil, errors.New("invalid api key")
	}

	err = verifier.Verify(context.Background(), 11155111, common.Address{1}, ContractNameFundMe, loaded[ContractNameFundMe], common.Address{2})
	assert.ErrorContains(t, err, "failed to verify FundMe")
}

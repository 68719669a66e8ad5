package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Address string `json:"address"`
	Block   uint64 `json:"block"`
}

func TestWriterReader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "FundMe.json")

	require.NoError(t, NewWriter().WriteJSON(path, record{Address: "0xabc", Block: 7}))

	var got record
	require.NoError(t, NewReader().ReadJSON(path, &got))
	assert.Equal(t, record{Address: "0xabc", Block: 7}, got)

	raw, err := NewReader().ReadBytes(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), raw[len(raw)-1])
}

func TestWriter_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".chainId")

	require.NoError(t, NewWriter().WriteBytes(path, []byte("1")))
	require.NoError(t, NewWriter().WriteBytes(path, []byte("31337")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "31337", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReader_MissingFileKeepsNotExist(t *testing.T) {
	var got record
	err := NewReader().ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &got)

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReader_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	var got record
	err := NewReader().ReadJSON(path, &got)
	assert.ErrorContains(t, err, "failed to unmarshal JSON")
}

func TestReader_ListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FundMe.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chainId"), []byte("1"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "solcInputs.json"), 0755))

	names, err := NewReader().ListFiles(dir, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{"FundMe.json"}, names)
}

func TestReader_ListFilesMissingDir(t *testing.T) {
	names, err := NewReader().ListFiles(filepath.Join(t.TempDir(), "missing"), ".json")
	require.NoError(t, err)
	assert.Empty(t, names)
}

package deployments

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/compose-network/fundme-deployer/internal/contracts"
	"github.com/compose-network/fundme-deployer/internal/infra/filesystem"
)

const chainIDFile = ".chainId"

var ErrNotFound = errors.New("deployment not found")

// Store keeps deployment records of one network under <root>/<network>/<name>.json
type Store struct {
	dir    string
	reader filesystem.Reader
	writer filesystem.Writer
}

func NewStore(rootDir, network string, reader filesystem.Reader, writer filesystem.Writer) *Store {
	return &Store{
		dir:    filepath.Join(rootDir, network),
		reader: reader,
		writer: writer,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Get returns the record for name or ErrNotFound.
func (s *Store) Get(name contracts.ContractName) (Record, error) {
	var record Record
	if err := s.reader.ReadJSON(s.recordPath(name), &record); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return Record{}, fmt.Errorf("failed to read deployment of %s: %w", name, err)
	}

	return record, nil
}

func (s *Store) Save(name contracts.ContractName, chainID uint64, record Record) error {
	if err := s.writer.WriteJSON(s.recordPath(name), record); err != nil {
		return fmt.Errorf("failed to write deployment of %s: %w", name, err)
	}

	if err := s.writer.WriteBytes(filepath.Join(s.dir, chainIDFile), []byte(strconv.FormatUint(chainID, 10))); err != nil {
		return fmt.Errorf("failed to write %s: %w", chainIDFile, err)
	}

	return nil
}

// All returns every record stored for the network.
func (s *Store) All() (map[contracts.ContractName]Record, error) {
	files, err := s.reader.ListFiles(s.dir, ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	records := make(map[contracts.ContractName]Record, len(files))
	for _, file := range files {
		if strings.HasPrefix(file, ".") {
			continue
		}

		name := contracts.ContractName(strings.TrimSuffix(file, ".json"))
		record, err := s.Get(name)
		if err != nil {
			return nil, err
		}
		records[name] = record
	}

	return records, nil
}

// ChainID returns the chain id the stored records belong to, if any were written.
func (s *Store) ChainID() (uint64, bool, error) {
	data, err := s.reader.ReadBytes(filepath.Join(s.dir, chainIDFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}

	chainID, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s in %s: %w", chainIDFile, s.dir, err)
	}

	return chainID, true, nil
}

func (s *Store) recordPath(name contracts.ContractName) string {
	return filepath.Join(s.dir, string(name)+".json")
}

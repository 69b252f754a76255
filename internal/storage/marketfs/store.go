// Package marketfs implements file-based JSON storage for cached market data
// and generated artifacts (charts, CSV exports).
package marketfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/models"
)

// Store provides file-based JSON storage rooted at a data directory.
type Store struct {
	basePath  string
	marketDir string
	logger    *common.Logger
}

// NewStore creates a new file store, creating the data directories as needed.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store path %s: %w", path, err)
	}
	marketDir := filepath.Join(path, "market")
	if err := os.MkdirAll(marketDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create market dir: %w", err)
	}

	logger.Info().Str("path", path).Msg("File store opened")
	return &Store{
		basePath:  path,
		marketDir: marketDir,
		logger:    logger,
	}, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// MarketDataStorage returns the market data storage interface.
func (s *Store) MarketDataStorage() interfaces.MarketDataStorage {
	return &marketDataStorage{store: s}
}

// WriteRaw writes arbitrary binary data to a subdirectory atomically and
// returns the written file path.
func (s *Store) WriteRaw(subdir, key string, data []byte) (string, error) {
	dir := filepath.Join(s.basePath, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	target := filepath.Join(dir, sanitizeKey(key))
	if err := atomicWrite(dir, target, data); err != nil {
		return "", err
	}
	return target, nil
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func filePath(dir, key string) string {
	return filepath.Join(dir, sanitizeKey(key)+".json")
}

// atomicWrite writes data via a temp file and rename so readers never see a
// partial file.
func atomicWrite(dir, target string, data []byte) error {
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func readJSON(dir, key string, dest interface{}) (bool, error) {
	path := filePath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

func writeJSON(dir, key string, data interface{}) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	return atomicWrite(dir, filePath(dir, key), jsonData)
}

func listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	return keys, nil
}

// --- MarketDataStorage ---

type marketDataStorage struct {
	store *Store
}

func (m *marketDataStorage) GetMarketData(_ context.Context, ticker string) (*models.MarketData, error) {
	var data models.MarketData
	found, err := readJSON(m.store.marketDir, ticker, &data)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &data, nil
}

func (m *marketDataStorage) SaveMarketData(_ context.Context, data *models.MarketData) error {
	data.LastUpdated = time.Now()
	if err := writeJSON(m.store.marketDir, data.Ticker, data); err != nil {
		return fmt.Errorf("failed to save market data: %w", err)
	}
	m.store.logger.Debug().Str("ticker", data.Ticker).Msg("Market data saved")
	return nil
}

func (m *marketDataStorage) ListTickers(_ context.Context) ([]string, error) {
	return listKeys(m.store.marketDir)
}

func (m *marketDataStorage) DeleteMarketData(_ context.Context, ticker string) error {
	if err := os.Remove(filePath(m.store.marketDir, ticker)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete market data for %s: %w", ticker, err)
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ interfaces.StorageManager    = (*Store)(nil)
	_ interfaces.MarketDataStorage = (*marketDataStorage)(nil)
)

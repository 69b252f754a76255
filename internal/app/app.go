// Package app wires configuration, storage, clients and services into the
// shared core used by both cmd/intrinsic-server and cmd/intrinsic-mcp.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/intrinsic/internal/clients/eodhd"
	"github.com/bobmcallan/intrinsic/internal/common"
	"github.com/bobmcallan/intrinsic/internal/interfaces"
	"github.com/bobmcallan/intrinsic/internal/services/chart"
	"github.com/bobmcallan/intrinsic/internal/services/forecast"
	"github.com/bobmcallan/intrinsic/internal/services/market"
	"github.com/bobmcallan/intrinsic/internal/services/valuation"
	"github.com/bobmcallan/intrinsic/internal/storage"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	EODHDClient      interfaces.EODHDClient
	MarketService    interfaces.MarketService
	ValuationService interfaces.ValuationService
	ChartService     interfaces.ChartService
	ForecastService  interfaces.ForecastService
	MCPServer        *server.MCPServer
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, storage, and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, INTRINSIC_CONFIG, then binary
	// dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("INTRINSIC_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "intrinsic.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/intrinsic.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths to the binary directory for self-contained runs
	if config.Storage.File.Path != "" && !filepath.IsAbs(config.Storage.File.Path) {
		config.Storage.File.Path = filepath.Join(binDir, config.Storage.File.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var eodhdClient interfaces.EODHDClient
	if config.Clients.EODHD.APIKey != "" {
		eodhdClient = eodhd.NewClient(config.Clients.EODHD.APIKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("EODHD API key not configured - market data collection will be unavailable")
	}

	marketService := market.NewService(eodhdClient, storageManager, logger)
	valuationService := valuation.NewService(marketService, storageManager, config.Valuation, logger)
	chartService := chart.NewService(marketService, storageManager, logger)
	forecastService := forecast.NewService(logger)

	mcpServer := server.NewMCPServer(
		"intrinsic",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		EODHDClient:      eodhdClient,
		MarketService:    marketService,
		ValuationService: valuationService,
		ChartService:     chartService,
		ForecastService:  forecastService,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

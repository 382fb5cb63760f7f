package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/adapters/api"
	"github.com/shieldsight/shieldsight-cli/internal/config"
	"github.com/shieldsight/shieldsight-cli/internal/core"
	"github.com/shieldsight/shieldsight-cli/internal/factory"
	"github.com/shieldsight/shieldsight-cli/internal/logging"
	"github.com/shieldsight/shieldsight-cli/internal/project"
)

// CLIFlags contains all command line flags for the scan CLI
type CLIFlags struct {
	// API flags
	APIBaseURL string
	APITimeout string

	// Input flags
	InputFile string
	ScanURL   string

	// History flags
	HistoryType string
	NoHistory   bool
	ShowHistory bool
	Limit       int

	// View flags
	Search     string
	Prediction string
	Risk       string
	SortField  string
	SortOrder  string

	// Export flags
	ExportFormat string
	OutputDir    string

	// Misc flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// API flags
	flag.StringVar(&flags.APIBaseURL, "api-url", "http://localhost:8000", "Base URL of the prediction API")
	flag.StringVar(&flags.APITimeout, "timeout", "60s", "Prediction API request timeout")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input CSV/TXT file of URLs (omit to read email text from stdin)")
	flag.StringVar(&flags.ScanURL, "url", "", "Scan a single URL instead of a batch")

	// History flags
	flag.StringVar(&flags.HistoryType, "history-type", "badger", "History backend (memory, badger, sqlite, mysql)")
	flag.BoolVar(&flags.NoHistory, "no-history", false, "Disable persistent scan history")
	flag.BoolVar(&flags.ShowHistory, "show-history", false, "List recent history entries and exit")
	flag.IntVar(&flags.Limit, "limit", 20, "Maximum history entries to list")

	// View flags
	flag.StringVar(&flags.Search, "search", "", "Filter results by URL substring")
	flag.StringVar(&flags.Prediction, "prediction", "all", "Filter by classification (all, phishing, legitimate)")
	flag.StringVar(&flags.Risk, "risk", "all", "Filter by risk level (all, high, medium, low)")
	flag.StringVar(&flags.SortField, "sort", "confidence", "Sort field (url, confidence, risk)")
	flag.StringVar(&flags.SortOrder, "order", "desc", "Sort order (asc, desc)")

	// Export flags
	flag.StringVar(&flags.ExportFormat, "export", "", "Export the projected results (csv, json, txt)")
	flag.StringVar(&flags.OutputDir, "output", ".", "Directory for exported files")

	// Misc flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the scan CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClientFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}

	// Register prediction client
	if err := container.Provide(func(f *factory.ClientFactory) (*api.Client, error) {
		return f.CreateAPIClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *api.Client) core.PredictionClient { return c }); err != nil {
		return nil, err
	}

	// Register history repository
	if err := container.Provide(func(f *factory.HistoryFactory) (core.HistoryRepository, error) {
		return f.CreateHistoryRepository()
	}); err != nil {
		return nil, err
	}

	// Register result store and projector
	if err := container.Provide(core.NewResultStore); err != nil {
		return nil, err
	}
	if err := container.Provide(project.NewProjector); err != nil {
		return nil, err
	}

	// Register batch service
	if err := container.Provide(func(
		client core.PredictionClient,
		store *core.ResultStore,
		history core.HistoryRepository,
		logger *zap.Logger,
		cfg *config.Config,
	) *core.BatchService {
		return core.NewBatchService(client, store, history, logger, cfg.GetInt("batch.max_urls"))
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("api.base_url", flags.APIBaseURL)
	v.Set("api.timeout", flags.APITimeout)

	v.Set("history.type", flags.HistoryType)
	v.Set("history.enabled", !flags.NoHistory)

	v.Set("export.directory", flags.OutputDir)

	return config.NewFromViper(v)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/config"
	"github.com/shieldsight/shieldsight-cli/internal/core"
	"github.com/shieldsight/shieldsight-cli/internal/di"
	"github.com/shieldsight/shieldsight-cli/internal/export"
	"github.com/shieldsight/shieldsight-cli/internal/extract"
	"github.com/shieldsight/shieldsight-cli/internal/project"
	"github.com/shieldsight/shieldsight-cli/internal/utils"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	cfg *config.Config,
	service *core.BatchService,
	store *core.ResultStore,
	projector *project.Projector,
	history core.HistoryRepository,
) error {
	defer logger.Sync()
	defer history.Stop()

	ctx := context.Background()

	if flags.ShowHistory {
		return printHistory(ctx, history, flags.Limit)
	}

	if flags.ScanURL != "" {
		return scanSingle(ctx, service, flags.ScanURL)
	}

	urls, source, err := readInput(flags, logger)
	if err != nil {
		return err
	}

	logger.Info("Submitting batch",
		zap.Int("urls", len(urls)),
		zap.String("source", string(source)))

	startTime := time.Now()
	report, err := service.Run(ctx, urls, source)
	if err != nil {
		return err
	}
	duration := time.Since(startTime)

	query := buildQuery(flags)
	projected := projector.Project(store.Snapshot(), query)

	printReport(report, projected, query, duration)

	if flags.ExportFormat != "" {
		return exportResults(flags, cfg, projected)
	}
	return nil
}

// readInput produces the candidate URL list: file mode for -file, email
// mode for text piped on stdin.
func readInput(flags *di.CLIFlags, logger *zap.Logger) ([]string, core.SourceType, error) {
	if flags.InputFile != "" {
		ext := strings.ToLower(filepath.Ext(flags.InputFile))
		if ext != ".csv" && ext != ".txt" {
			return nil, "", fmt.Errorf("unsupported input file type %q: expected .csv or .txt", ext)
		}

		data, err := os.ReadFile(flags.InputFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read input file: %w", err)
		}
		text := utils.SanitizeUTF8(string(data))
		logger.Debug("Read input file",
			zap.String("file", flags.InputFile),
			zap.String("preview", utils.Preview(text, 256)))

		return extract.FromDelimitedFile(text), core.SourceManual, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := utils.SanitizeUTF8(string(data))
	logger.Debug("Read email text from stdin",
		zap.Int("bytes", len(text)),
		zap.String("preview", utils.Preview(text, 256)))

	return extract.FromEmailText(text), core.SourceEmail, nil
}

// buildQuery maps the view flags onto the projector's filter/sort state.
func buildQuery(flags *di.CLIFlags) project.Query {
	query := project.DefaultQuery()
	query.Search = flags.Search
	if flags.Prediction != "" {
		query.Prediction = flags.Prediction
	}
	if flags.Risk != "" {
		query.Risk = flags.Risk
	}
	switch project.SortField(flags.SortField) {
	case project.SortByURL, project.SortByConfidence, project.SortByRisk:
		query.SortField = project.SortField(flags.SortField)
	}
	if project.SortOrder(flags.SortOrder) == project.Ascending {
		query.SortOrder = project.Ascending
	}
	return query
}

func scanSingle(ctx context.Context, service *core.BatchService, url string) error {
	startTime := time.Now()
	result, err := service.ScanURL(ctx, url)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Result ===\n")
	printResult(*result)
	fmt.Printf("Processing time: %v\n", time.Since(startTime))
	return nil
}

func printHistory(ctx context.Context, history core.HistoryRepository, limit int) error {
	entries, err := history.List(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Scan History ===\n")
	if len(entries) == 0 {
		fmt.Println("No history entries")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-10s  %6.2f%%  %-6s  %-6s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Prediction, e.Confidence*100, e.RiskLevel, e.SourceType, e.URL)
	}
	return nil
}

func printReport(report *core.BatchReport, projected []core.BatchResult, query project.Query, duration time.Duration) {
	c := report.Counters
	fmt.Printf("\n=== Batch Summary ===\n")
	fmt.Printf("Total: %d\n", c.Total)
	fmt.Printf("Processed: %d\n", c.Processed)
	fmt.Printf("Successful: %d\n", c.Successful)
	fmt.Printf("Failed: %d\n", c.Failed)
	fmt.Printf("Processing time: %v\n", duration)

	if len(report.Errors) > 0 {
		fmt.Printf("\n=== Errors ===\n")
		for _, e := range report.Errors {
			fmt.Printf("%d. %s: %s\n", e.Index+1, e.URL, e.Error)
		}
	}

	fmt.Printf("\n=== Results (%d of %d shown) ===\n", len(projected), len(report.Results))
	if query.Search != "" || query.Prediction != project.FilterAll || query.Risk != project.FilterAll {
		fmt.Printf("Filters: search=%q prediction=%s risk=%s\n", query.Search, query.Prediction, query.Risk)
	}
	fmt.Printf("Sort: %s %s\n\n", query.SortField, query.SortOrder)

	for i, r := range projected {
		fmt.Printf("%d. ", i+1)
		printResult(r)
		fmt.Println()
	}
}

func printResult(r core.BatchResult) {
	fmt.Printf("URL: %s\n", r.URL)
	fmt.Printf("Prediction: %s\n", r.Prediction)
	fmt.Printf("Confidence: %.2f%%\n", r.Confidence*100)
	fmt.Printf("Risk level: %s\n", r.RiskLevel)
	fmt.Printf("Phishing probability: %.2f%%\n", r.PhishingProbability*100)
	fmt.Printf("Legitimate probability: %.2f%%\n", r.LegitimateProbability*100)
}

func exportResults(flags *di.CLIFlags, cfg *config.Config, projected []core.BatchResult) error {
	format, err := export.ParseFormat(flags.ExportFormat)
	if err != nil {
		return err
	}

	now := time.Now()
	payload, err := export.Serialize(format, projected, now)
	if err != nil {
		return err
	}

	dir := cfg.GetString("export.directory")
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, export.Filename(format, now))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Printf("Exported %d results to %s\n", len(projected), path)
	return nil
}

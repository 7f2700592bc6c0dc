package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/pipeline"
	"github.com/rxtech-lab/argo-alpha/pkg/alpha"
	"github.com/rxtech-lab/argo-alpha/pkg/alpha/models/historical"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// openBase loads the configuration named by --config and builds the model base.
// The returned cleanup writes metrics and releases the data sources.
func openBase(cmd *cli.Command, onProgress pipeline.OnFetchProgress) (*alpha.Base, func(), error) {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	config, err := alpha.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	base, err := alpha.New(config, alpha.WithLogger(log), alpha.WithProgress(onProgress))
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if path := cmd.String("metrics-file"); path != "" {
			if err := base.Metrics().WriteTextfile(path); err != nil {
				log.Warn("Failed to write metrics", zap.String("path", path), zap.Error(err))
			}
		}

		if err := base.Close(); err != nil {
			log.Warn("Failed to close data source", zap.Error(err))
		}

		_ = log.Sync()
	}

	return base, cleanup, nil
}

// newFetchProgress renders a progress bar once the number of tickers is known.
func newFetchProgress(description string) (pipeline.OnFetchProgress, func()) {
	var bar *progressbar.ProgressBar

	onProgress := func(done int, total int, ticker string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(description),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		bar.Describe(fmt.Sprintf("%s %s", description, ticker))
		_ = bar.Set(done)
	}

	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}

	return onProgress, finish
}

func refreshAction(ctx context.Context, cmd *cli.Command) error {
	onProgress, finish := newFetchProgress("Fetching")

	base, cleanup, err := openBase(cmd, onProgress)
	if err != nil {
		return err
	}
	defer cleanup()

	err = base.Refresh(ctx, cmd.Bool("force"))
	finish()

	if err != nil {
		return err
	}

	dataset, err := base.Realized()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("%s is ready", base.Config().Name)))
	fmt.Printf("instruments: %s\n", strings.Join(dataset.Symbols(), ", "))
	fmt.Printf("dates: %d  returns: %d\n", dataset.Prices.Len(), dataset.Returns.Len())

	report := base.Report()
	if report.IsNone() {
		fmt.Println(HelpStyle.Render("loaded from today's snapshot"))

		return nil
	}

	fmt.Print(formatReport(report.Unwrap()))

	return nil
}

func formatReport(report pipeline.Report) string {
	var s strings.Builder

	fmt.Fprintf(&s, "run %s\n", report.RunID)

	reasons := make([]string, 0, len(report.RemovedAssets))
	for reason := range report.RemovedAssets {
		reasons = append(reasons, reason)
	}

	sort.Strings(reasons)

	for _, reason := range reasons {
		fmt.Fprintf(&s, "removed (%s): %s\n", reason, strings.Join(report.RemovedAssets[reason], ", "))
	}

	if len(report.RemovedDays) > 0 {
		fmt.Fprintf(&s, "removed dates: %d\n", len(report.RemovedDays))
	}

	return s.String()
}

func trainAction(ctx context.Context, cmd *cli.Command) error {
	onProgress, finish := newFetchProgress("Fetching")

	base, cleanup, err := openBase(cmd, onProgress)
	if err != nil {
		return err
	}
	defer cleanup()

	model, err := historical.NewFromParams(base.Config().Model.Params)
	if err != nil {
		return err
	}

	err = base.Run(ctx, model, cmd.Bool("force"))
	finish()

	if err != nil {
		return err
	}

	return model.ShowResults(os.Stdout)
}

func inspectAction(ctx context.Context, cmd *cli.Command) error {
	onProgress, finish := newFetchProgress("Fetching")

	base, cleanup, err := openBase(cmd, onProgress)
	if err != nil {
		return err
	}
	defer cleanup()

	err = base.Refresh(ctx, cmd.Bool("force"))
	finish()

	if err != nil {
		return err
	}

	dataset, err := base.Realized()
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewInspectModel(base.Config().Name, dataset), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("inspector failed: %w", err)
	}

	return nil
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	config := marketdata.DownloadConfig{
		Provider:  cmd.String("provider"),
		Tickers:   cmd.StringSlice("ticker"),
		StartDate: cmd.Timestamp("start").Format(marketdata.DateLayout),
		EndDate:   cmd.Timestamp("end").Format(marketdata.DateLayout),
		ApiKey:    os.Getenv(cmd.String("api-key-env")),
	}

	if err := config.Validate(); err != nil {
		return err
	}

	params, err := config.ToDownloadParams()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(params.Tickers),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	client, err := marketdata.NewClient(config.ToClientConfig(cmd.String("data")), func(current int, _ int, ticker string) {
		bar.Describe(fmt.Sprintf("Downloading %s", ticker))
		_ = bar.Set(current)
	}, log)
	if err != nil {
		return err
	}

	result, err := client.Download(ctx, params)
	_ = bar.Finish()

	if err != nil {
		return err
	}

	fmt.Println()

	for _, ticker := range params.Tickers {
		if path, ok := result.Archived[ticker]; ok {
			fmt.Printf("%s -> %s\n", ticker, path)
		}
	}

	if len(result.Missing) > 0 {
		fmt.Println(HelpStyle.Render("no data: " + strings.Join(result.Missing, ", ")))
	}

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	var (
		schema string
		err    error
	)

	if cmd.Bool("download") {
		schema, err = marketdata.GetDownloadConfigSchema()
	} else {
		schema, err = alpha.ConfigSchema()
	}

	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

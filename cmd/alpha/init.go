package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-alpha/pkg/alpha"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "alpha-config.json"
	sampleConfigName = "alpha-config.yaml"
)

// SampleConfig is the configuration written by init.
func SampleConfig() alpha.Config {
	config := alpha.DefaultConfig()
	config.Name = "example"
	config.Model.DataDir = "./data"
	config.Model.StartDate = "2020-01-01"
	config.Model.EndDate = "2024-12-31"
	config.Model.Params = map[string]any{"lookback": 20}
	config.Universe.List = []string{"SPY", "QQQ", "IWM", "TLT"}
	config.Universe.RiskFreeSymbol = "USDOLLAR"
	config.DataSource.RiskFreeProvider = "fred"
	config.DataSource.APIKeyEnv = "POLYGON_API_KEY"
	config.DataSource.RiskFreeAPIKeyEnv = "FRED_API_KEY"

	return config
}

// initAction writes the configuration schema and, unless one exists, a sample
// configuration that references it.
func initAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")

	schema, err := alpha.ConfigSchema()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(dir, schemaName)
	sampleConfigPath := filepath.Join(dir, sampleConfigName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	fmt.Printf("Schema written to %s\n", schemaPath)

	if _, err := os.Stat(sampleConfigPath); err == nil {
		return nil
	}

	sample, err := yaml.Marshal(map[string]alpha.Config{"alpha": SampleConfig()})
	if err != nil {
		return fmt.Errorf("failed to marshal sample config: %w", err)
	}

	sample = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), sample...)

	if err := os.WriteFile(sampleConfigPath, sample, 0644); err != nil {
		return fmt.Errorf("failed to write sample config: %w", err)
	}

	fmt.Printf("Sample config written to %s\n", sampleConfigPath)

	return nil
}

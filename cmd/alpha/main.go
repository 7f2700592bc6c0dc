package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/rxtech-lab/argo-alpha/internal/version"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

var (
	configFlag = &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Path to the model configuration `FILE`",
		Required: true,
	}
	forceFlag = &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "Ignore today's snapshot and fetch again",
	}
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "alpha",
		Usage:   "Build the realized dataset of an alpha model and train it",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write refresh metrics to `FILE` in the node exporter textfile format",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "refresh",
				Usage:  "Load today's snapshot or fetch and clean the dataset",
				Flags:  []cli.Flag{configFlag, forceFlag},
				Action: refreshAction,
			},
			{
				Name:   "train",
				Usage:  "Refresh the dataset, train the historical model and print its results",
				Flags:  []cli.Flag{configFlag, forceFlag},
				Action: trainAction,
			},
			{
				Name:   "inspect",
				Usage:  "Browse the realized matrices in the terminal",
				Flags:  []cli.Flag{configFlag, forceFlag},
				Action: inspectAction,
			},
			{
				Name:  "download",
				Usage: "Archive daily histories as parquet files for the parquet provider",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   "Data provider to download from (polygon, binance, fred)",
						Value:   "polygon",
					},
					&cli.StringSliceFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Ticker to download, repeat for several",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:     "start",
						Aliases:  []string{"s"},
						Usage:    "Start date in `YYYY-MM-DD` format",
						Required: true,
						Config: cli.TimestampConfig{
							Layouts: []string{marketdata.DateLayout},
						},
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{marketdata.DateLayout},
						},
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Archive `DIR`",
						Value:   "data",
					},
					&cli.StringFlag{
						Name:  "api-key-env",
						Usage: "Environment variable holding the provider API key",
						Value: "POLYGON_API_KEY",
					},
				},
				Action: downloadAction,
			},
			{
				Name:  "init",
				Usage: "Write the configuration schema and a sample configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output `DIR`",
						Value: "./config",
					},
				},
				Action: initAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the model configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "download",
						Usage: "Print the download configuration schema instead",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

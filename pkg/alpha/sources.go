package alpha

import (
	"io"

	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/provider"
)

// newSource builds the configured provider. When a risk-free provider other
// than the main one is configured, the risk-free symbol is routed to it.
// The returned closers must be closed with the source.
func newSource(config Config) (provider.Provider, []io.Closer, error) {
	ds := config.DataSource

	archive := ds.ArchiveDir
	if archive == "" {
		archive = config.Model.DataDir
	}

	primary, err := provider.NewMarketDataProvider(provider.Config{
		Type:     provider.ProviderType(ds.Provider),
		APIKey:   ds.APIKey(),
		BaseURL:  "",
		DataPath: archive,
		Series:   nil,
	})
	if err != nil {
		return nil, nil, err
	}

	closers := collectClosers(nil, primary)

	if ds.RiskFreeProvider == "" || ds.RiskFreeProvider == ds.Provider {
		return primary, closers, nil
	}

	riskFree, err := provider.NewMarketDataProvider(provider.Config{
		Type:     provider.ProviderType(ds.RiskFreeProvider),
		APIKey:   ds.RiskFreeAPIKey(),
		BaseURL:  "",
		DataPath: archive,
		Series:   nil,
	})
	if err != nil {
		_ = closeAll(closers)

		return nil, nil, err
	}

	closers = collectClosers(closers, riskFree)

	return provider.NewRouter(primary).Route(config.Universe.RiskFreeSymbol, riskFree), closers, nil
}

func collectClosers(closers []io.Closer, p provider.Provider) []io.Closer {
	if c, ok := p.(io.Closer); ok {
		closers = append(closers, c)
	}

	return closers
}

func closeAll(closers []io.Closer) error {
	var first error

	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

package app

import (
	"github.com/seolens/seolens/internal/analyzer"
	"github.com/seolens/seolens/internal/fetcher"
	"github.com/seolens/seolens/internal/utils"
	"github.com/seolens/seolens/internal/webclient"
)

// Config gathers the runtime configuration of every component one process
// hosts. Components keep their own Config types; this only composes them.
// The HTTP server carries its own Config so it can depend on this package
// without a cycle.
type Config struct {
	AnalyzerCfg analyzer.Config

	FetcherCfg fetcher.Config

	WebClientCfg webclient.Config

	// HistoryPath is the SQLite database file. Empty disables persistence.
	HistoryPath string

	// URL canonicalization policy used when grouping history rows.
	URLCfg utils.CanonicalizeOptions
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		AnalyzerCfg:  analyzer.DefaultConfig(),
		FetcherCfg:   fetcher.DefaultConfig(),
		WebClientCfg: webclient.DefaultConfig(),
		HistoryPath:  "seolens.db",
		URLCfg: utils.CanonicalizeOptions{
			DropTrackingParams: false,
			StripTrailingSlash: true,
			DefaultScheme:      "https",
		},
	}
}

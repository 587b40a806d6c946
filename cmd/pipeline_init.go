package main

import (
	"net/http"
	"time"

	"github.com/sells-group/poi-cli/internal/pipeline"
	"github.com/sells-group/poi-cli/internal/resolve"
	"github.com/sells-group/poi-cli/internal/taxonomy"
	"github.com/sells-group/poi-cli/pkg/nominatim"
	"github.com/sells-group/poi-cli/pkg/overpass"
)

// initPipeline builds the extraction pipeline from configuration.
func initPipeline() (*pipeline.Pipeline, error) {
	tax, err := loadTaxonomy()
	if err != nil {
		return nil, err
	}

	geocoder := nominatim.NewClient(
		nominatim.WithBaseURL(cfg.Nominatim.URL),
		nominatim.WithUserAgent(cfg.Nominatim.UserAgent),
		nominatim.WithRateLimit(cfg.Nominatim.RateLimit),
	)

	client := overpass.NewClient(
		overpass.WithBaseURL(cfg.Overpass.URL),
		overpass.WithUserAgent(cfg.Overpass.UserAgent),
		overpass.WithRateLimit(cfg.Overpass.RateLimit),
		overpass.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Overpass.TimeoutSecs) * time.Second,
		}),
	)

	return pipeline.New(tax, resolve.New(geocoder), client), nil
}

// loadTaxonomy returns the curated default taxonomy, or the configured
// override file when one is set.
func loadTaxonomy() (*taxonomy.Taxonomy, error) {
	if cfg.Taxonomy.File != "" {
		return taxonomy.LoadFile(cfg.Taxonomy.File)
	}
	return taxonomy.Default(), nil
}

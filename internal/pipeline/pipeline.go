// Package pipeline orchestrates one extraction run: resolve the location,
// build the spatial query, fetch raw elements, normalize and categorize.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/model"
	"github.com/sells-group/poi-cli/internal/normalize"
	"github.com/sells-group/poi-cli/internal/resolve"
	"github.com/sells-group/poi-cli/internal/taxonomy"
	"github.com/sells-group/poi-cli/pkg/overpass"
)

// Pipeline runs the sequential extraction flow. The taxonomy is immutable
// and shared; everything else is per-run state.
type Pipeline struct {
	tax      *taxonomy.Taxonomy
	resolver *resolve.Resolver
	client   overpass.Client
}

// New creates a Pipeline with all dependencies.
func New(tax *taxonomy.Taxonomy, resolver *resolve.Resolver, client overpass.Client) *Pipeline {
	return &Pipeline{tax: tax, resolver: resolver, client: client}
}

// Run executes one extraction. The pipeline is synchronous: each stage blocks
// until completion, and cancellation flows through ctx. Errors from each
// stage surface with their typed identity intact so callers can render
// distinct guidance. An empty result set is success, not an error.
func (p *Pipeline) Run(ctx context.Context, locationInput string, radiusKM float64) (*model.ResultSet, error) {
	start := time.Now()
	runID := uuid.New()

	center, err := p.resolver.Resolve(ctx, locationInput)
	if err != nil {
		return nil, err
	}

	query, err := overpass.BuildQuery(p.tax, center, radiusKM)
	if err != nil {
		return nil, err
	}

	elements, err := p.client.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	rs := &model.ResultSet{
		RunID:    runID,
		Center:   center,
		RadiusKM: radiusKM,
		Entities: normalize.Normalize(elements, p.tax, center),
		Took:     time.Since(start),
	}
	rs.SortByDistance()

	zap.L().Info("extraction complete",
		zap.String("run_id", runID.String()),
		zap.Float64("lat", center.Lat),
		zap.Float64("lon", center.Lon),
		zap.Float64("radius_km", radiusKM),
		zap.Int("entities", rs.Count()),
		zap.Duration("took", rs.Took),
	)
	return rs, nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/export"
	"github.com/sells-group/poi-cli/internal/report"
	"github.com/sells-group/poi-cli/internal/resolve"
	"github.com/sells-group/poi-cli/pkg/nominatim"
	"github.com/sells-group/poi-cli/pkg/overpass"
)

// maxRadiusKM caps the interactive radius the same way the original UI does;
// the query builder itself accepts any positive radius.
const maxRadiusKM = 50.0

var (
	extractLocation string
	extractRadius   float64
	extractOut      string
	extractTop      int
	extractPreview  int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetch and categorize business entities around a location",
	Long:  "Resolves the location (literal \"lat, lon\" or a place name), queries Overpass for business entities within the radius, categorizes them, and prints a summary. Optionally exports an xlsx spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractLocation == "" {
			return eris.New("--location is required")
		}
		if extractRadius <= 0 || extractRadius > maxRadiusKM {
			return eris.Errorf("--radius must be in (0, %v] km", maxRadiusKM)
		}

		p, err := initPipeline()
		if err != nil {
			return err
		}

		rs, err := p.Run(cmd.Context(), extractLocation, extractRadius)
		if err != nil {
			return eris.Wrap(err, guidanceFor(err))
		}

		report.WriteSummary(os.Stdout, rs, extractTop)
		if rs.Count() > 0 {
			fmt.Fprintln(os.Stdout)
			report.WritePreview(os.Stdout, rs.Entities, extractPreview)
		}

		if extractOut != "" && rs.Count() > 0 {
			if err := export.WriteXLSXFile(extractOut, rs.Entities, cfg.Export.SheetName, export.DefaultColumns); err != nil {
				return err
			}
			zap.L().Info("exported spreadsheet",
				zap.String("path", extractOut),
				zap.Int("rows", rs.Count()),
			)
			fmt.Fprintf(os.Stdout, "\nSaved %d rows to %s\n", rs.Count(), extractOut)
		}

		return nil
	},
}

// guidanceFor maps typed pipeline errors to user-facing guidance.
func guidanceFor(err error) string {
	switch {
	case errors.Is(err, overpass.ErrServiceOverloaded):
		return "the OpenStreetMap server is overloaded; wait a few seconds and try again"
	case errors.Is(err, overpass.ErrBadRequest):
		return "the server rejected the query"
	case errors.Is(err, overpass.ErrInvalidRadius):
		return "radius must be a positive number of kilometers"
	case errors.Is(err, resolve.ErrLocationNotFound):
		return "no place matched that name; try rephrasing the location"
	case errors.Is(err, resolve.ErrInvalidCoordinate):
		return "coordinates must be within [-90,90] latitude and [-180,180] longitude"
	case errors.Is(err, overpass.ErrNetwork), errors.Is(err, nominatim.ErrNetwork):
		return "network error; check connectivity and retry"
	default:
		return "extraction failed"
	}
}

func init() {
	extractCmd.Flags().StringVar(&extractLocation, "location", "", "coordinates \"lat, lon\" or a place name")
	extractCmd.Flags().Float64Var(&extractRadius, "radius", 1.0, "search radius in kilometers (0, 50]")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "write results to this xlsx file")
	extractCmd.Flags().IntVar(&extractTop, "top", 10, "number of categories in the frequency breakdown")
	extractCmd.Flags().IntVar(&extractPreview, "preview", 50, "number of rows in the preview table")
	rootCmd.AddCommand(extractCmd)
}

package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-cli/internal/model"
	"github.com/sells-group/poi-cli/internal/taxonomy"
)

// geometryKinds are the Overpass element kinds a clause is emitted for.
var geometryKinds = []string{"node", "way", "relation"}

// BuildQuery renders an Overpass QL union query selecting entities within
// radiusKM kilometers of center that match any taxonomy axis. One clause is
// emitted per geometry kind per axis (a single Overpass clause cannot mix
// predicates on different tag keys, so the union is the required way to
// express "any of these axes"). "out center" asks the provider for a
// representative point on way/relation geometries.
func BuildQuery(tax *taxonomy.Taxonomy, center model.Location, radiusKM float64) (string, error) {
	if radiusKM <= 0 {
		return "", eris.Wrapf(ErrInvalidRadius, "got %v km", radiusKM)
	}

	around := fmt.Sprintf("(around:%s,%s,%s)",
		strconv.FormatFloat(radiusKM*1000, 'f', 1, 64),
		strconv.FormatFloat(center.Lat, 'f', -1, 64),
		strconv.FormatFloat(center.Lon, 'f', -1, 64),
	)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, rule := range tax.Rules() {
		pred := predicate(rule)
		for _, kind := range geometryKinds {
			fmt.Fprintf(&b, "  %s%s%s;\n", kind, pred, around)
		}
	}
	b.WriteString(");\nout center;")
	return b.String(), nil
}

// predicate renders the tag filter for one axis.
func predicate(r taxonomy.Rule) string {
	switch r.Match {
	case taxonomy.MatchWhitelist:
		return fmt.Sprintf(`["%s"~"^(%s)$"]`, r.Key, strings.Join(r.Values, "|"))
	case taxonomy.MatchBlacklist:
		return fmt.Sprintf(`["%s"]["%s"!~"^(%s)$"]`, r.Key, r.Key, strings.Join(r.Values, "|"))
	default:
		return fmt.Sprintf(`["%s"]`, r.Key)
	}
}

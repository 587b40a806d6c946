// Package normalize flattens raw provider elements into entities and assigns
// each exactly one business category by taxonomy precedence.
package normalize

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/poi-cli/internal/model"
	"github.com/sells-group/poi-cli/internal/taxonomy"
	"github.com/sells-group/poi-cli/pkg/overpass"
)

// CategoryOther is assigned when no taxonomy axis applies.
const CategoryOther = "Other"

// Normalize converts raw elements into categorized entities. It is a pure
// transformation: the same input yields the same output, element order is
// preserved, and duplicate provider elements are kept as returned. Missing
// tag keys are the normal "axis doesn't apply" case, never a fault.
func Normalize(elements []overpass.Element, tax *taxonomy.Taxonomy, center model.Location) []model.CategorizedEntity {
	rules := tax.Rules()
	out := make([]model.CategorizedEntity, 0, len(elements))
	for _, el := range elements {
		raw := flatten(el)

		ent := model.CategorizedEntity{
			RawEntity: raw,
			Category:  categorize(raw.Tags, rules),
			DistanceM: -1,
		}
		if len(raw.Point) > 0 {
			ent.DistanceM = model.HaversineMeters(center.Coord(), raw.Point)
		}
		out = append(out, ent)
	}
	return out
}

// Categorize returns the category label for a tag mapping: the first axis in
// precedence order whose key is present with a non-empty value wins.
func Categorize(tags map[string]string, tax *taxonomy.Taxonomy) string {
	return categorize(tags, tax.Rules())
}

func categorize(tags map[string]string, rules []taxonomy.Rule) string {
	for _, rule := range rules {
		if v := tags[rule.Key]; v != "" {
			return rule.Display + ": " + v
		}
	}
	return CategoryOther
}

// flatten copies one element into a RawEntity, preferring direct node
// coordinates and falling back to the provider-computed center for ways and
// relations.
func flatten(el overpass.Element) model.RawEntity {
	tags := make(map[string]string, len(el.Tags))
	for k, v := range el.Tags {
		tags[k] = v
	}

	raw := model.RawEntity{
		Kind: el.Type,
		ID:   el.ID,
		Tags: tags,
	}
	switch {
	case el.Lat != nil && el.Lon != nil:
		raw.Point = geom.Coord{*el.Lon, *el.Lat}
	case el.Center != nil:
		raw.Point = geom.Coord{el.Center.Lon, el.Center.Lat}
	}
	return raw
}

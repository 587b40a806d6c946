// Package taxonomy defines the business classification axes: which OSM tag
// keys identify a business entity, how each key's values are filtered, and
// the fixed precedence order used for categorization.
package taxonomy

import (
	"github.com/rotisserie/eris"
)

// Match is the kind of value filter a rule applies.
type Match string

// Rule match kinds.
const (
	// MatchWhitelist requires the key to be present with a value in Values.
	MatchWhitelist Match = "whitelist"
	// MatchBlacklist requires the key to be present with a value NOT in Values.
	MatchBlacklist Match = "blacklist"
	// MatchPresence requires only that the key is present.
	MatchPresence Match = "presence"
)

// Rule is one classification axis: a tag key, a display name for category
// labels, and a value filter.
type Rule struct {
	Key     string   `yaml:"key"`
	Display string   `yaml:"display"`
	Match   Match    `yaml:"match"`
	Values  []string `yaml:"values,omitempty"`
}

// Taxonomy is an immutable, totally ordered set of rules. Rule order is the
// categorization precedence and is part of the taxonomy contract.
type Taxonomy struct {
	rules []Rule
}

// New validates rules and returns a Taxonomy. The given slice is copied.
func New(rules []Rule) (*Taxonomy, error) {
	if len(rules) == 0 {
		return nil, eris.New("taxonomy: no rules defined")
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Key == "" || r.Display == "" {
			return nil, eris.Errorf("taxonomy: rule %q needs key and display name", r.Key)
		}
		if seen[r.Key] {
			return nil, eris.Errorf("taxonomy: duplicate axis %q", r.Key)
		}
		seen[r.Key] = true
		switch r.Match {
		case MatchWhitelist, MatchBlacklist:
			if len(r.Values) == 0 {
				return nil, eris.Errorf("taxonomy: axis %q has %s match but no values", r.Key, r.Match)
			}
		case MatchPresence:
		default:
			return nil, eris.Errorf("taxonomy: axis %q has unknown match kind %q", r.Key, r.Match)
		}
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Taxonomy{rules: copied}, nil
}

// Rules returns the rules in precedence order. The returned slice is a copy.
func (t *Taxonomy) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of axes.
func (t *Taxonomy) Len() int { return len(t.rules) }

// Default returns the curated business taxonomy. Shop is checked first so a
// shop tag always wins over co-present amenity/office/etc tags.
func Default() *Taxonomy {
	t, err := New([]Rule{
		{
			Key:     "shop",
			Display: "Shop",
			Match:   MatchBlacklist,
			// Non-business states, not real shops.
			Values: []string{"vacant", "no", "disused"},
		},
		{
			Key:     "amenity",
			Display: "Amenity",
			Match:   MatchWhitelist,
			// Commercial amenities only; excludes public utilities like
			// bench, toilets, parking.
			Values: []string{
				"restaurant", "cafe", "fast_food", "bar", "pub", "ice_cream", "food_court",
				"bank", "bureau_de_change", "pharmacy", "dentist", "doctors", "clinic",
				"veterinary", "cinema", "theatre", "nightclub", "casino", "marketplace",
				"post_office", "fuel", "car_rental", "car_wash",
			},
		},
		{
			Key:     "office",
			Display: "Office",
			Match:   MatchPresence,
		},
		{
			Key:     "tourism",
			Display: "Tourism",
			Match:   MatchWhitelist,
			Values:  []string{"hotel", "hostel", "guest_house", "motel"},
		},
		{
			Key:     "craft",
			Display: "Craft",
			Match:   MatchPresence,
		},
		{
			Key:     "leisure",
			Display: "Leisure",
			Match:   MatchWhitelist,
			Values:  []string{"fitness_centre", "sports_centre", "bowling_alley", "water_park"},
		},
	})
	if err != nil {
		// The default rules are static; a validation failure is a programming error.
		panic(err)
	}
	return t
}

package taxonomy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a taxonomy override from a YAML file. The file replaces the
// curated defaults wholesale; axis order in the file is the categorization
// precedence.
//
// Expected shape:
//
//	axes:
//	  - key: shop
//	    display: Shop
//	    match: blacklist
//	    values: [vacant, no, disused]
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: read file %s", path)
	}

	var wrapper struct {
		Axes []Rule `yaml:"axes"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "taxonomy: parse file %s", path)
	}

	t, err := New(wrapper.Axes)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: invalid file %s", path)
	}
	return t, nil
}

// Package catalog seeds element defect catalogs from a shared vocabulary file.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/state"
)

// Vocabulary is the seeding input: a list of known elements plus the defect
// names that apply to each (type, material) combination.
type Vocabulary struct {
	Elements []ElementEntry `yaml:"elements" json:"elements"`
	Defects  []DefectEntry  `yaml:"defects" json:"defects"`
}

// ElementEntry describes an element the vocabulary knows about.
type ElementEntry struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Material string `yaml:"material,omitempty" json:"material,omitempty"`
}

// DefectEntry lists defect names per severity for one (type, material).
type DefectEntry struct {
	Type        string   `yaml:"type" json:"type"`
	Material    string   `yaml:"material" json:"material"`
	Minor       []string `yaml:"minor,omitempty" json:"minor,omitempty"`
	Significant []string `yaml:"significant,omitempty" json:"significant,omitempty"`
	Serious     []string `yaml:"serious,omitempty" json:"serious,omitempty"`
}

// LoadVocabulary reads a vocabulary file. JSON files are accepted as well,
// being valid YAML.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading vocabulary %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary parses vocabulary data.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("catalog: parsing vocabulary: %w", err)
	}
	for i, e := range v.Elements {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("catalog: element %d has no id", i)
		}
	}
	return v, nil
}

// Lookup returns the merged defect names for a (type, material) pair.
// Matching ignores case and surrounding whitespace.
func (v *Vocabulary) Lookup(typ, material string) (interfaces.Catalog, bool) {
	var (
		cat   interfaces.Catalog
		found bool
	)
	for _, e := range v.Defects {
		if !sameKey(e.Type, typ) || !sameKey(e.Material, material) {
			continue
		}
		found = true
		cat.Add(interfaces.SeverityMinor, e.Minor...)
		cat.Add(interfaces.SeveritySignificant, e.Significant...)
		cat.Add(interfaces.SeveritySerious, e.Serious...)
	}
	return cat, found
}

func sameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// SeedActions returns the actions that bring snap in line with the
// vocabulary: an AddElement for every vocabulary element the snapshot lacks,
// then an AddDefectToCatalog per severity for every element whose
// (type, material) has vocabulary. Catalogs are only ever extended.
func SeedActions(snap *interfaces.Snapshot, v *Vocabulary) []state.Action {
	var actions []state.Action

	present := make(map[string]bool)
	elements := make([]interfaces.Element, 0)
	if snap != nil {
		for _, el := range snap.Elements {
			present[el.ID] = true
			elements = append(elements, el)
		}
	}

	for _, e := range v.Elements {
		if present[e.ID] {
			continue
		}
		el := interfaces.Element{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category,
			Type:     e.Type,
			Material: e.Material,
		}
		present[e.ID] = true
		elements = append(elements, el)
		actions = append(actions, state.AddElement{Element: el})
	}

	for _, el := range elements {
		cat, ok := v.Lookup(el.Type, el.Material)
		if !ok {
			continue
		}
		for _, sev := range interfaces.Severities {
			names := missing(el.Catalog, sev, cat.Names(sev))
			if len(names) == 0 {
				continue
			}
			actions = append(actions, state.AddDefectToCatalog{
				ElementID: el.ID,
				Severity:  sev,
				Names:     names,
			})
		}
	}
	return actions
}

// missing returns the names not yet present in cat under sev.
func missing(cat interfaces.Catalog, sev interfaces.Severity, names []string) []string {
	var out []string
	for _, n := range names {
		if !cat.Has(sev, n) {
			out = append(out, n)
		}
	}
	return out
}

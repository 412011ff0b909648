package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/state"
)

const sampleVocabulary = `
elements:
  - id: roof
    name: Roof
    type: Pitched roof
    material: Wood
  - id: facade
    name: Facade
    type: wall
    material: brick
defects:
  - type: pitched roof
    material: wood
    minor: [moss]
    serious: [wood rot, leak]
  - type: Pitched Roof
    material: WOOD
    serious: [leak, sagging]
  - type: wall
    material: brick
    significant: [joint erosion]
`

func writeVocabulary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocabulary.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing vocabulary: %v", err)
	}
	return path
}

func TestLoadVocabulary(t *testing.T) {
	v, err := LoadVocabulary(writeVocabulary(t, sampleVocabulary))
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}
	if len(v.Elements) != 2 {
		t.Errorf("expected 2 elements, got %d", len(v.Elements))
	}
	if len(v.Defects) != 3 {
		t.Errorf("expected 3 defect entries, got %d", len(v.Defects))
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadVocabulary(writeVocabulary(t, "elements: [{name: no id}]")); err == nil {
		t.Error("expected error for element without id")
	}
	if _, err := LoadVocabulary(writeVocabulary(t, "elements: {{")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestParseVocabulary_JSON(t *testing.T) {
	v, err := ParseVocabulary([]byte(`{"elements": [{"id": "e1", "name": "Door"}], "defects": [{"type": "door", "material": "steel", "minor": ["rust"]}]}`))
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}
	cat, ok := v.Lookup("door", "steel")
	if !ok || !cat.Has(interfaces.SeverityMinor, "rust") {
		t.Errorf("expected rust under minor, got %+v", cat)
	}
}

func TestVocabulary_Lookup(t *testing.T) {
	v, err := ParseVocabulary([]byte(sampleVocabulary))
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}

	tests := []struct {
		name     string
		typ      string
		material string
		found    bool
		serious  []string
	}{
		{"exact", "pitched roof", "wood", true, []string{"wood rot", "leak", "sagging"}},
		{"case and whitespace", "  PITCHED ROOF ", "wood", true, []string{"wood rot", "leak", "sagging"}},
		{"other material", "pitched roof", "slate", false, nil},
		{"no serious names", "wall", "brick", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := v.Lookup(tt.typ, tt.material)
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, ok)
			}
			got := cat.Names(interfaces.SeveritySerious)
			if len(got) != len(tt.serious) {
				t.Fatalf("expected serious %v, got %v", tt.serious, got)
			}
			for i := range got {
				if got[i] != tt.serious[i] {
					t.Errorf("serious[%d]: expected %q, got %q", i, tt.serious[i], got[i])
				}
			}
		})
	}
}

func TestSeedActions(t *testing.T) {
	v, err := ParseVocabulary([]byte(sampleVocabulary))
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}

	snap := &interfaces.Snapshot{
		Version: interfaces.SnapshotVersion,
		Elements: []interfaces.Element{{
			ID:       "roof",
			Name:     "Roof",
			Type:     "pitched roof",
			Material: "wood",
			Catalog:  interfaces.Catalog{Serious: []string{"leak", "custom"}},
		}},
	}

	actions := SeedActions(snap, v)

	var adds, catalogs int
	for _, a := range actions {
		switch act := a.(type) {
		case state.AddElement:
			adds++
			if act.Element.ID != "facade" {
				t.Errorf("expected only facade to be added, got %q", act.Element.ID)
			}
		case state.AddDefectToCatalog:
			catalogs++
			if act.ElementID == "roof" && act.Severity == interfaces.SeveritySerious {
				for _, n := range act.Names {
					if n == "leak" {
						t.Error("names already cataloged must not be re-seeded")
					}
				}
			}
		default:
			t.Errorf("unexpected action %T", a)
		}
	}
	if adds != 1 {
		t.Errorf("expected 1 AddElement, got %d", adds)
	}
	// roof: minor + serious, facade: significant
	if catalogs != 3 {
		t.Errorf("expected 3 AddDefectToCatalog actions, got %d", catalogs)
	}

	seeded, err := state.NewReducer().ReduceAll(snap, actions)
	if err != nil {
		t.Fatalf("applying seed actions: %v", err)
	}
	roof := seeded.Elements[0]
	if !roof.Catalog.Has(interfaces.SeveritySerious, "custom") {
		t.Error("seeding must not drop names outside the vocabulary")
	}
	if !roof.Catalog.Has(interfaces.SeveritySerious, "sagging") || !roof.Catalog.Has(interfaces.SeverityMinor, "moss") {
		t.Errorf("expected vocabulary names in the roof catalog, got %+v", roof.Catalog)
	}
	if len(seeded.Elements) != 2 || !seeded.Elements[1].Catalog.Has(interfaces.SeveritySignificant, "joint erosion") {
		t.Errorf("expected seeded facade element, got %+v", seeded.Elements)
	}

	if again := SeedActions(seeded, v); len(again) != 0 {
		t.Errorf("expected seeding to be idempotent, got %d actions", len(again))
	}
}

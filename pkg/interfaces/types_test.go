package interfaces

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"minor", SeverityMinor},
		{"gering", SeverityMinor},
		{"Serieus", SeveritySignificant},
		{"significant", SeveritySignificant},
		{" ernstig ", SeveritySerious},
		{"serious", SeveritySerious},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if ParseSeverity("catastrophic").IsValid() {
		t.Error("expected unknown severity to be invalid")
	}
}

func TestSeverity_DecodesSourceNames(t *testing.T) {
	var fromJSON DefectInstance
	if err := json.Unmarshal([]byte(`{"id":"d1","severity":"ernstig"}`), &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if fromJSON.Severity != SeveritySerious {
		t.Errorf("json: expected %q, got %q", SeveritySerious, fromJSON.Severity)
	}

	var fromYAML DefectInstance
	if err := yaml.Unmarshal([]byte("id: d1\nseverity: Serieus\n"), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if fromYAML.Severity != SeveritySignificant {
		t.Errorf("yaml: expected %q, got %q", SeveritySignificant, fromYAML.Severity)
	}

	var unknown Severity
	if err := json.Unmarshal([]byte(`"catastrophic"`), &unknown); err != nil {
		t.Fatalf("json: %v", err)
	}
	if unknown.IsValid() {
		t.Errorf("expected unknown severity to stay invalid, got %q", unknown)
	}
}

func TestCatalog_AddIsIdempotent(t *testing.T) {
	var c Catalog
	if n := c.Add(SeveritySerious, "rot", "crack"); n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}
	if n := c.Add(SeveritySerious, "rot"); n != 0 {
		t.Errorf("expected 0 inserted on repeat, got %d", n)
	}
	if len(c.Serious) != 2 {
		t.Errorf("expected 2 serious names, got %v", c.Serious)
	}
	if c.Has(SeverityMinor, "rot") {
		t.Error("name should only exist under its own severity")
	}
}

func TestCatalog_AddUnknownSeverity(t *testing.T) {
	var c Catalog
	if n := c.Add(Severity("bogus"), "rot"); n != 0 {
		t.Errorf("expected nothing inserted, got %d", n)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d names", c.Len())
	}
}

func TestCatalog_Remove(t *testing.T) {
	c := Catalog{Minor: []string{"a", "b", "c"}}
	removed := c.Remove(SeverityMinor, "b", "x")
	if len(removed) != 1 || removed[0] != "b" {
		t.Errorf("expected [b] removed, got %v", removed)
	}
	if len(c.Minor) != 2 || c.Minor[0] != "a" || c.Minor[1] != "c" {
		t.Errorf("unexpected remaining names %v", c.Minor)
	}
}

func TestDate_JSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2010-06-15"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2010 || d.Month() != time.June || d.Day() != 15 {
		t.Errorf("unexpected date %v", d)
	}

	if err := json.Unmarshal([]byte(`"2010-06-15T13:45:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal RFC 3339: %v", err)
	}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2010-06-15"` {
		t.Errorf("expected date-only output, got %s", out)
	}

	if err := json.Unmarshal([]byte(`"15/06/2010"`), &d); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	intensity := 2
	orig := &Snapshot{
		Version: SnapshotVersion,
		Elements: []Element{{
			ID:      "e1",
			Catalog: Catalog{Serious: []string{"rot"}},
			Reports: []InspectionReport{{
				ID:      "r1",
				Defects: []DefectInstance{{ID: "d1", Intensity: &intensity, Media: []string{"a.jpg"}}},
			}},
		}},
	}

	cp := orig.Clone()
	cp.Elements[0].Catalog.Serious[0] = "changed"
	*cp.Elements[0].Reports[0].Defects[0].Intensity = 3
	cp.Elements[0].Reports[0].Defects[0].Media[0] = "b.jpg"

	if orig.Elements[0].Catalog.Serious[0] != "rot" {
		t.Error("catalog shared between clone and original")
	}
	if *orig.Elements[0].Reports[0].Defects[0].Intensity != 2 {
		t.Error("intensity pointer shared between clone and original")
	}
	if orig.Elements[0].Reports[0].Defects[0].Media[0] != "a.jpg" {
		t.Error("media slice shared between clone and original")
	}
}

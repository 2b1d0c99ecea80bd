// SPDX-License-Identifier: MIT
package catalog

import (
	"testing"
)

func specTrim(name string, values map[string]string) *Trim {
	return &Trim{
		Name:  name,
		Specs: []SpecGroup{{Title: "Motor", Values: values}},
	}
}

func TestSpecValue(t *testing.T) {
	trim := specTrim("1.6 VTi", map[string]string{
		SpecPower:     "120 CV / 88 kW",
		SpecCylinders: NotAvailable,
	})

	if v, ok := trim.SpecValue(SpecPower); !ok || v != "120 CV / 88 kW" {
		t.Errorf("expected power value, got %q ok=%v", v, ok)
	}
	if _, ok := trim.SpecValue(SpecCylinders); ok {
		t.Error("No disponible must read as absent")
	}
	if _, ok := trim.SpecValue(SpecGears); ok {
		t.Error("missing key must read as absent")
	}
}

func TestSpecValueSearchesOptions(t *testing.T) {
	trim := &Trim{
		Options: []SpecGroup{{Title: "Frenos", Values: map[string]string{
			SpecFrontBrakes: "Discos ventilados",
		}}},
	}
	if v, ok := trim.SpecValue(SpecFrontBrakes); !ok || v != "Discos ventilados" {
		t.Errorf("expected option table lookup, got %q ok=%v", v, ok)
	}
}

func TestAddModelDeduplicates(t *testing.T) {
	mk := &Make{Name: "Abarth"}
	mk.AddModel(&Model{Name: "500"})
	mk.AddModel(&Model{Name: "500"})
	mk.AddModel(&Model{Name: "595"})

	if len(mk.Models) != 2 {
		t.Errorf("expected 2 models after dedup, got %d", len(mk.Models))
	}
}

func TestSummarize(t *testing.T) {
	makes := []*Make{
		{
			Name: "Seat",
			Models: []*Model{
				{Name: "Ibiza", Trims: []*Trim{
					{Name: "1.0 TSI", Options: []SpecGroup{{}, {}}},
					{Name: "1.5 TSI"},
				}},
				{Name: "León"},
			},
		},
		{Name: "Cupra"},
	}

	got := Summarize(makes)
	want := Summary{Makes: 2, Models: 2, Trims: 2, Options: 2}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Citroën C4 Aircross", "citroen-c4-aircross"},
		{"Alfa Romeo", "alfa-romeo"},
		{"León FR", "leon-fr"},
		{"  DS 3 ", "ds-3"},
		{"", "entry"},
		{"!!!", "entry"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStableIDDeterministic(t *testing.T) {
	a := StableID("Ibiza", "https://www.km77.com/coches/seat/ibiza")
	b := StableID("Ibiza", "https://www.km77.com/coches/seat/ibiza")
	c := StableID("Ibiza", "https://www.km77.com/coches/seat/ibiza-2017")

	if a != b {
		t.Error("StableID must be deterministic")
	}
	if a == c {
		t.Error("different URLs must yield different IDs")
	}
}

func TestFilterMinPower(t *testing.T) {
	trims := []*Trim{
		specTrim("weak", map[string]string{SpecPower: "95 CV / 70 kW"}),
		specTrim("strong", map[string]string{SpecPower: "170 CV / 125 kW"}),
		specTrim("unknown", map[string]string{SpecPower: NotAvailable}),
	}

	got := Filter(trims, MinPower(150))
	if len(got) != 1 || got[0].Name != "strong" {
		t.Errorf("expected only strong trim, got %v", names(got))
	}
}

func TestFilterMaxAcceleration(t *testing.T) {
	trims := []*Trim{
		specTrim("slow", map[string]string{SpecAcceleration: "11,2 s"}),
		specTrim("fast", map[string]string{SpecAcceleration: "6,8 s"}),
	}

	got := Filter(trims, MaxAcceleration(8.0))
	if len(got) != 1 || got[0].Name != "fast" {
		t.Errorf("expected only fast trim, got %v", names(got))
	}
}

func TestFilterGearsSkipsCVT(t *testing.T) {
	trims := []*Trim{
		specTrim("manual", map[string]string{SpecGears: "6"}),
		specTrim("cvt", map[string]string{SpecGears: "Múltiples"}),
	}

	got := Filter(trims, MinGears(6))
	if len(got) != 1 || got[0].Name != "manual" {
		t.Errorf("expected only manual trim, got %v", names(got))
	}
}

func TestFilterDiscBrakes(t *testing.T) {
	trims := []*Trim{
		specTrim("discs", map[string]string{
			SpecFrontBrakes: "Discos ventilados",
			SpecRearBrakes:  "Discos",
		}),
		specTrim("drums", map[string]string{
			SpecFrontBrakes: "Discos",
			SpecRearBrakes:  "Tambor",
		}),
	}

	got := Filter(trims, DiscBrakes())
	if len(got) != 1 || got[0].Name != "discs" {
		t.Errorf("expected only discs trim, got %v", names(got))
	}
}

func TestFilterSpeedSteering(t *testing.T) {
	trims := []*Trim{
		specTrim("assisted", map[string]string{
			"Asistencia en función de la velocidad": "Sí",
		}),
		specTrim("fixed", map[string]string{
			"Asistencia en función de la velocidad": "No",
		}),
		specTrim("geared", map[string]string{
			"Desmultiplicacion en función de la velocidad": "Sí",
		}),
	}

	got := Filter(trims, SpeedSteering())
	if len(got) != 2 || got[0].Name != "assisted" || got[1].Name != "geared" {
		t.Errorf("expected assisted and geared trims, got %v", names(got))
	}
}

func TestFilterCombines(t *testing.T) {
	trims := []*Trim{
		specTrim("both", map[string]string{
			SpecPower:     "200 CV / 147 kW",
			SpecCylinders: "4",
		}),
		specTrim("power-only", map[string]string{
			SpecPower:     "200 CV / 147 kW",
			SpecCylinders: "3",
		}),
	}

	got := Filter(trims, MinPower(150), MinCylinders(4))
	if len(got) != 1 || got[0].Name != "both" {
		t.Errorf("expected only both trim, got %v", names(got))
	}
}

func names(trims []*Trim) []string {
	out := make([]string, len(trims))
	for i, tr := range trims {
		out[i] = tr.Name
	}
	return out
}

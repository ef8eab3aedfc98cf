package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/physics"
)

func TestParse(t *testing.T) {
	input := `# header
1P/Halley,0.96714,17.834,58.42,111.33,11
12P/Pons-Brooks,0.9545,17.2,255.86,198.99
broken,abc,1,2,3
short,0.1,2
4 Vesta, 0.0887, 2.362, 103.8, 151.2, 525
`
	res, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}
	if res.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", res.Skipped)
	}

	halley := res.Records[0]
	if halley.Name != "1P/Halley" || halley.Eccentricity != 0.96714 || !halley.HasRadius || halley.Radius != 5.5 {
		t.Errorf("unexpected record %+v", halley)
	}
	if res.Records[1].HasRadius {
		t.Error("five-column row must not carry a radius")
	}
	if res.Records[2].SemiMajorAxisRatio != 2.362 {
		t.Errorf("leading spaces not trimmed: %+v", res.Records[2])
	}
}

func TestRecordMass(t *testing.T) {
	c := physics.DefaultConstants()

	sized := Record{Radius: 10, HasRadius: true}
	want := c.CatalogDensity * 4.0 / 3.0 * math.Pi * math.Pow(10e3, 3)
	if got := sized.Mass(c); math.Abs(got-want) > 1e-9*want {
		t.Errorf("Mass = %g, want %g", got, want)
	}

	unsized := Record{}
	if unsized.Mass(c) != (Record{Radius: c.DefaultCatalogRadius, HasRadius: true}).Mass(c) {
		t.Error("records without a size must use the default radius")
	}
}

func TestRecordElements(t *testing.T) {
	r := Record{Eccentricity: 0.2, SemiMajorAxisRatio: 3, LongAscendingNode: 10, ArgPeriapsis: 20}
	el := r.Elements(1.5e17)
	if el.SemiMajorAxis != 4.5e17 || el.Eccentricity != 0.2 || el.LongAscendingNode != 10 || el.ArgPeriapsis != 20 {
		t.Errorf("unexpected elements %+v", el)
	}
	if el.TrueAnomaly != 0 {
		t.Error("catalog bodies start at periapsis")
	}
}

func TestDefault(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(cat.Comets) == 0 || len(cat.Asteroids) == 0 {
		t.Fatalf("embedded catalog empty: %d comets, %d asteroids", len(cat.Comets), len(cat.Asteroids))
	}
	for _, r := range append(cat.Comets, cat.Asteroids...) {
		if r.Eccentricity < 0 || r.Eccentricity >= 1 {
			t.Errorf("%s: eccentricity %g is not a bound orbit", r.Name, r.Eccentricity)
		}
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asteroids.csv")
	if err := os.WriteFile(path, []byte("x,0.1,2,3,4,5\nbad,row\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load("", path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cat.Asteroids) != 1 || cat.Asteroids[0].Name != "x" {
		t.Errorf("unexpected asteroids %+v", cat.Asteroids)
	}
	if cat.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", cat.Skipped)
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty, ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.csv"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

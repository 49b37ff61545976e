package shared_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"food_rent/internal/domain"
	"food_rent/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "YELP_PAGE_SIZE", "INGEST_PACE_MS", "INGEST_CITIES", "CITIES_FILE"} {
		t.Setenv(k, "")
	}
	c := shared.Load()
	if c.StoreDriver != "sqlite" {
		t.Fatalf("driver: %q", c.StoreDriver)
	}
	if c.YelpPageSize != 25 || c.RentCastPageSize != 20 {
		t.Fatalf("page sizes: %d/%d", c.YelpPageSize, c.RentCastPageSize)
	}
	if c.Pace != time.Second {
		t.Fatalf("pace: %v", c.Pace)
	}
	if len(c.Cities) != len(shared.DefaultCities) {
		t.Fatalf("cities: %d", len(c.Cities))
	}
}

func TestLoad_CitiesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.yaml")
	body := "cities:\n  - name: Austin\n    state: TX\n  - name: Denver\n    state: CO\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CITIES_FILE", path)
	t.Setenv("INGEST_CITIES", "denver")

	c := shared.Load()
	if len(c.Cities) != 2 || c.Cities[0].Name != "Austin" || c.Cities[1].State != "CO" {
		t.Fatalf("unexpected cities: %+v", c.Cities)
	}
	sel, err := c.SelectedCities()
	if err != nil {
		t.Fatalf("SelectedCities: %v", err)
	}
	if len(sel) != 1 || sel[0].Name != "Denver" {
		t.Fatalf("selected: %+v", sel)
	}
}

func TestValidateIngest(t *testing.T) {
	base := shared.Config{
		YelpKey: "y", RentCastKey: "r",
		YelpPageSize: 25, RentCastPageSize: 20,
		Cities: shared.DefaultCities,
	}
	if err := base.ValidateIngest(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	noKey := base
	noKey.YelpKey = ""
	if err := noKey.ValidateIngest(); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("missing key: got %v", err)
	}

	unknown := base
	unknown.OnlyCities = []string{"Atlantis"}
	if err := unknown.ValidateIngest(); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("unknown city: got %v", err)
	}
}

func TestValidateIngest_CitiesFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cities: [name: Austin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"missing":   filepath.Join(dir, "nope.yaml"),
		"malformed": bad,
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CITIES_FILE", path)
			t.Setenv("INGEST_CITIES", "")
			t.Setenv("YELP_API_KEY", "y")
			t.Setenv("RENTCAST_API_KEY", "r")
			t.Setenv("YELP_PAGE_SIZE", "")
			t.Setenv("RENTCAST_PAGE_SIZE", "")

			c := shared.Load()
			if err := c.ValidateIngest(); !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("got %v, want configuration error", err)
			}
		})
	}
}

package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"food_rent/internal/domain"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver string // sqlite|mysql
	SQLitePath  string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	YelpBase     string
	YelpKey      string
	RentCastBase string
	RentCastKey  string
	UpstreamRPS  int

	YelpPageSize     int
	YelpMaxOffset    int
	RentCastPageSize int
	Pace             time.Duration
	Workers          int

	Cities     []domain.CitySpec
	OnlyCities []string

	citiesErr error // CITIES_FILE load failure, reported by ValidateIngest
}

// DefaultCities is the city set used when CITIES_FILE is not given.
var DefaultCities = []domain.CitySpec{
	{Name: "Ann Arbor", State: "MI"},
	{Name: "Chicago", State: "IL"},
	{Name: "Boston", State: "MA"},
	{Name: "New York", State: "NY"},
	{Name: "Seattle", State: "WA"},
	{Name: "Orlando", State: "FL"},
	{Name: "Miami", State: "FL"},
	{Name: "Nashville", State: "TN"},
	{Name: "Detroit", State: "MI"},
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		LogLevel:         env("LOG_LEVEL", "info"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ""),
		StoreDriver:      env("STORE_DRIVER", "sqlite"),
		SQLitePath:       env("SQLITE_PATH", "food_rent.db"),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/food_rent?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		YelpBase:         env("YELP_BASE_URL", "https://api.yelp.com/v3"),
		YelpKey:          env("YELP_API_KEY", ""),
		RentCastBase:     env("RENTCAST_BASE_URL", "https://api.rentcast.io/v1"),
		RentCastKey:      env("RENTCAST_API_KEY", ""),
		UpstreamRPS:      atoi("UPSTREAM_RPS", 5),
		YelpPageSize:     atoi("YELP_PAGE_SIZE", 25),
		YelpMaxOffset:    atoi("YELP_MAX_OFFSET", 1000),
		RentCastPageSize: atoi("RENTCAST_PAGE_SIZE", 20),
		Pace:             time.Duration(atoi("INGEST_PACE_MS", 1000)) * time.Millisecond,
		Workers:          atoi("INGEST_WORKERS", 1),
		Cities:           DefaultCities,
		OnlyCities:       splitList(os.Getenv("INGEST_CITIES")),
	}
	if path := os.Getenv("CITIES_FILE"); path != "" {
		cities, err := LoadCities(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("cities file unreadable")
			c.citiesErr = err
		} else {
			c.Cities = cities
		}
	}
	return c
}

// LoadCities reads a YAML list of {name, state} entries.
func LoadCities(path string) ([]domain.CitySpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Cities []domain.CitySpec `yaml:"cities"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Cities) == 0 {
		return nil, fmt.Errorf("%s: no cities", path)
	}
	return doc.Cities, nil
}

// ValidateIngest checks what the ingestor needs before touching any source.
func (c Config) ValidateIngest() error {
	if c.citiesErr != nil {
		return fmt.Errorf("%w: cities file: %v", domain.ErrConfiguration, c.citiesErr)
	}
	if c.YelpKey == "" {
		return fmt.Errorf("%w: YELP_API_KEY is empty", domain.ErrConfiguration)
	}
	if c.RentCastKey == "" {
		return fmt.Errorf("%w: RENTCAST_API_KEY is empty", domain.ErrConfiguration)
	}
	if c.YelpPageSize <= 0 || c.RentCastPageSize <= 0 {
		return fmt.Errorf("%w: page sizes must be positive", domain.ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(c.Cities))
	for _, city := range c.Cities {
		if strings.TrimSpace(city.Name) == "" || strings.TrimSpace(city.State) == "" {
			return fmt.Errorf("%w: city entry needs name and state", domain.ErrConfiguration)
		}
		key := strings.ToLower(city.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate city %q", domain.ErrConfiguration, city.Name)
		}
		seen[key] = struct{}{}
	}
	_, err := c.SelectedCities()
	return err
}

// SelectedCities applies INGEST_CITIES to the configured set. Naming a city
// that is not configured is a configuration error.
func (c Config) SelectedCities() ([]domain.CitySpec, error) {
	if len(c.OnlyCities) == 0 {
		return c.Cities, nil
	}
	out := make([]domain.CitySpec, 0, len(c.OnlyCities))
	for _, name := range c.OnlyCities {
		found := false
		for _, city := range c.Cities {
			if strings.EqualFold(city.Name, name) {
				out = append(out, city)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown city %q", domain.ErrConfiguration, name)
		}
	}
	return out, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

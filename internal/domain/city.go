package domain

// City is one of the configured cities. Zip is filled from the first
// listing that carries one and is never overwritten afterwards.
type City struct {
	ID    int64   `json:"city_id"`
	Name  string  `json:"name"`
	State string  `json:"state"`
	Zip   *string `json:"zip,omitempty"`
}

// CitySpec is a configured city before it has a surrogate id.
type CitySpec struct {
	Name  string `yaml:"name"`
	State string `yaml:"state"`
}

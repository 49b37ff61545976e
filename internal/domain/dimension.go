package domain

import "fmt"

// DimensionKind selects one of the lookup tables shared by fact rows.
type DimensionKind int

const (
	DimensionPrice DimensionKind = iota + 1
	DimensionCategory
	DimensionProperty
)

func (k DimensionKind) String() string {
	switch k {
	case DimensionPrice:
		return "price"
	case DimensionCategory:
		return "category"
	case DimensionProperty:
		return "property"
	}
	return fmt.Sprintf("dimension(%d)", int(k))
}

// Valid reports whether k names a known dimension table.
func (k DimensionKind) Valid() bool {
	return k >= DimensionPrice && k <= DimensionProperty
}

// Dataset is one of the two independently ingested fact sets.
type Dataset string

const (
	DatasetRestaurants Dataset = "restaurants"
	DatasetRentals     Dataset = "rentals"
)

// Datasets is the order in which a city's datasets are ingested.
var Datasets = []Dataset{DatasetRestaurants, DatasetRentals}

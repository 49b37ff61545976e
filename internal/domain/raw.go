package domain

// Raw records mirror the upstream JSON. Every optional field is a pointer
// so that absence can be told apart from a zero value.

type RawRestaurant struct {
	ID          *string       `json:"id"`
	Name        *string       `json:"name"`
	Location    *RawLocation  `json:"location"`
	Rating      *float64      `json:"rating"`
	ReviewCount *int64        `json:"review_count"`
	Price       *string       `json:"price"`
	Categories  []RawCategory `json:"categories"`
}

type RawLocation struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
}

type RawCategory struct {
	Alias *string `json:"alias"`
	Title *string `json:"title"`
}

type RawRental struct {
	ID               *string  `json:"id"`
	FormattedAddress *string  `json:"formattedAddress"`
	City             *string  `json:"city"`
	State            *string  `json:"state"`
	ZipCode          *string  `json:"zipCode"`
	Bedrooms         *float64 `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	Price            *float64 `json:"price"`
	PropertyType     *string  `json:"propertyType"`
}

// RestaurantQuery is one page request against source A.
type RestaurantQuery struct {
	Location string
	Limit    int
	Offset   int
}

// RentalQuery is one page request against source B.
type RentalQuery struct {
	City   string
	State  string
	Limit  int
	Offset int
}

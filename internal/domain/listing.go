package domain

// Restaurant is a normalized source A record. Rating and ReviewCount are
// never null: an unrated restaurant is stored as zero.
type Restaurant struct {
	ID          string
	Name        string
	CityID      int64
	Rating      float64
	ReviewCount int64
	PriceID     *int64
	CategoryID  *int64
}

// Rental is a normalized source B record. Absent numeric fields stay nil.
type Rental struct {
	ListingID        string
	CityID           int64
	FormattedAddress *string
	Bedrooms         *int64
	Bathrooms        *float64
	Price            *float64
	PropertyID       *int64
}

// WriteOutcome is the result of an insert-if-absent write.
type WriteOutcome int

const (
	Inserted WriteOutcome = iota + 1
	Ignored
)

func (o WriteOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Ignored:
		return "ignored"
	}
	return "unknown"
}

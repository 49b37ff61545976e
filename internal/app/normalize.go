package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"food_rent/internal/domain"
)

// NormalizedRestaurant is a row ready for the writer plus the zip code the
// record carried, if any.
type NormalizedRestaurant struct {
	Row domain.Restaurant
	Zip string
}

type NormalizedRental struct {
	Row domain.Rental
	Zip string
}

// Normalizer turns raw upstream records into fact rows. It never retries
// and never writes anything except new dimension labels (via Registry).
type Normalizer struct{ reg *Registry }

func NewNormalizer(reg *Registry) *Normalizer { return &Normalizer{reg: reg} }

// restaurantDraft is a restaurant before its labels are resolved.
type restaurantDraft struct {
	row      domain.Restaurant
	price    string
	category string
	zip      string
}

type rentalDraft struct {
	row      domain.Rental
	property string
	zip      string
}

// NormalizeRestaurant returns an error wrapping domain.ErrMalformedRecord
// when the record must be skipped. Any other error comes from the store.
func (n *Normalizer) NormalizeRestaurant(ctx context.Context, raw domain.RawRestaurant, city domain.City) (NormalizedRestaurant, error) {
	d, err := draftRestaurant(raw, city)
	if err != nil {
		return NormalizedRestaurant{}, err
	}
	if d.row.PriceID, err = n.reg.Resolve(ctx, domain.DimensionPrice, d.price); err != nil {
		return NormalizedRestaurant{}, err
	}
	if d.row.CategoryID, err = n.reg.Resolve(ctx, domain.DimensionCategory, d.category); err != nil {
		return NormalizedRestaurant{}, err
	}
	return NormalizedRestaurant{Row: d.row, Zip: d.zip}, nil
}

func (n *Normalizer) NormalizeRental(ctx context.Context, raw domain.RawRental, city domain.City) (NormalizedRental, error) {
	d, err := draftRental(raw, city)
	if err != nil {
		return NormalizedRental{}, err
	}
	if d.row.PropertyID, err = n.reg.Resolve(ctx, domain.DimensionProperty, d.property); err != nil {
		return NormalizedRental{}, err
	}
	return NormalizedRental{Row: d.row, Zip: d.zip}, nil
}

// draftRestaurant is the pure part of normalization: identity, scope and
// defaults. An unrated restaurant is stored with rating 0 and 0 reviews.
func draftRestaurant(raw domain.RawRestaurant, city domain.City) (restaurantDraft, error) {
	id := str(raw.ID)
	if id == "" {
		return restaurantDraft{}, fmt.Errorf("%w: restaurant without id", domain.ErrMalformedRecord)
	}
	var embedded, zip string
	if raw.Location != nil {
		embedded = str(raw.Location.City)
		zip = str(raw.Location.ZipCode)
	}
	if !sameCity(embedded, city.Name) {
		return restaurantDraft{}, fmt.Errorf("%w: restaurant %s is in %q, not %q", domain.ErrMalformedRecord, id, embedded, city.Name)
	}

	d := restaurantDraft{
		row: domain.Restaurant{
			ID:     id,
			Name:   str(raw.Name),
			CityID: city.ID,
		},
		price: str(raw.Price),
		zip:   zip,
	}
	if raw.Rating != nil {
		d.row.Rating = *raw.Rating
	}
	if raw.ReviewCount != nil {
		d.row.ReviewCount = *raw.ReviewCount
	}
	if len(raw.Categories) > 0 {
		first := raw.Categories[0]
		d.category = str(first.Title)
		if d.category == "" {
			d.category = str(first.Alias)
		}
	}
	return d, nil
}

// draftRental keeps absent numbers nil: a listing without a price is not
// a free listing.
func draftRental(raw domain.RawRental, city domain.City) (rentalDraft, error) {
	id := str(raw.ID)
	if id == "" {
		return rentalDraft{}, fmt.Errorf("%w: rental without id", domain.ErrMalformedRecord)
	}
	embedded := str(raw.City)
	if !sameCity(embedded, city.Name) {
		return rentalDraft{}, fmt.Errorf("%w: rental %s is in %q, not %q", domain.ErrMalformedRecord, id, embedded, city.Name)
	}

	d := rentalDraft{
		row: domain.Rental{
			ListingID: id,
			CityID:    city.ID,
			Bathrooms: raw.Bathrooms,
			Price:     raw.Price,
		},
		property: str(raw.PropertyType),
		zip:      str(raw.ZipCode),
	}
	if addr := str(raw.FormattedAddress); addr != "" {
		d.row.FormattedAddress = &addr
	}
	if raw.Bedrooms != nil {
		b := int64(math.Round(*raw.Bedrooms))
		d.row.Bedrooms = &b
	}
	return d, nil
}

// sameCity compares city names case-insensitively. An empty embedded name
// never matches: scope that cannot be checked is out of scope.
func sameCity(embedded, target string) bool {
	a, b := foldName(embedded), foldName(target)
	return a != "" && a == b
}

func foldName(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"food_rent/internal/domain"
)

// RentCast lists long-term rental listings.
type RentCast struct{ c *base }

func NewRentCast(baseURL, key string, rps int) (*RentCast, error) {
	c, err := newBase("rentcast", baseURL, key, rps, func(r *http.Request) {
		r.Header.Set("X-Api-Key", key)
	})
	if err != nil {
		return nil, err
	}
	return &RentCast{c: c}, nil
}

// wrapperKeys are the object keys a listing array has been seen under.
var wrapperKeys = []string{"listings", "data", "results"}

func (rc *RentCast) ListRentals(ctx context.Context, q domain.RentalQuery) ([]domain.RawRental, error) {
	v := url.Values{}
	v.Set("city", q.City)
	v.Set("state", q.State)
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))

	body, err := rc.c.get(ctx, "listings_rental_long_term", fmt.Sprintf("%s/listings/rental/long-term?%s", rc.c.url, v.Encode()))
	if err != nil {
		return nil, err
	}
	return decodeRentals(body)
}

// decodeRentals accepts either a bare array or an object wrapping one.
func decodeRentals(body []byte) ([]domain.RawRental, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}
	switch trimmed[0] {
	case '[':
		var out []domain.RawRental
		if err := decode(trimmed, &out); err != nil {
			return nil, err
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := decode(trimmed, &obj); err != nil {
			return nil, err
		}
		for _, k := range wrapperKeys {
			if raw, ok := obj[k]; ok {
				var out []domain.RawRental
				if err := decode(raw, &out); err != nil {
					return nil, err
				}
				return out, nil
			}
		}
		return nil, fmt.Errorf("%w: object without a listing array", ErrMalformed)
	}
	return nil, fmt.Errorf("%w: unexpected JSON value", ErrMalformed)
}

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"food_rent/internal/domain"
)

// Yelp searches restaurants through the Yelp Fusion business search.
type Yelp struct{ c *base }

func NewYelp(baseURL, key string, rps int) (*Yelp, error) {
	c, err := newBase("yelp", baseURL, key, rps, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+key)
	})
	if err != nil {
		return nil, err
	}
	return &Yelp{c: c}, nil
}

type yelpSearchResponse struct {
	Businesses []domain.RawRestaurant `json:"businesses"`
	Total      int                    `json:"total"`
}

func (y *Yelp) SearchRestaurants(ctx context.Context, q domain.RestaurantQuery) ([]domain.RawRestaurant, error) {
	v := url.Values{}
	v.Set("term", "restaurants")
	v.Set("location", q.Location)
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))

	body, err := y.c.get(ctx, "businesses_search", fmt.Sprintf("%s/businesses/search?%s", y.c.url, v.Encode()))
	if err != nil {
		return nil, err
	}
	var out yelpSearchResponse
	if err := decode(body, &out); err != nil {
		return nil, err
	}
	return out.Businesses, nil
}

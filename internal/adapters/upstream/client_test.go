package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"food_rent/internal/adapters/upstream"
	"food_rent/internal/domain"
)

func TestYelp_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: %q", got)
		}
		q := r.URL.Query()
		if r.URL.Path != "/businesses/search" || q.Get("location") != "Chicago" ||
			q.Get("limit") != "25" || q.Get("offset") != "50" || q.Get("term") != "restaurants" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"total":2,"businesses":[
				{"id":"r1","name":"Cafe X","location":{"city":"Chicago","zip_code":"60601"},"rating":4.5,"review_count":10,"price":"$$","categories":[{"alias":"cafes","title":"Cafe"}]},
				{"id":"r2","name":"Bare","location":{"city":"Chicago"}}
			]}`))
		}
	}))
	defer ts.Close()

	cl, err := upstream.NewYelp(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.SearchRestaurants(ctx, domain.RestaurantQuery{Location: "Chicago", Limit: 25, Offset: 50})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	r1 := got[0]
	if *r1.ID != "r1" || *r1.Rating != 4.5 || *r1.ReviewCount != 10 || *r1.Price != "$$" ||
		*r1.Location.ZipCode != "60601" || *r1.Categories[0].Title != "Cafe" {
		t.Fatalf("unexpected first record: %+v", r1)
	}
	r2 := got[1]
	if r2.Rating != nil || r2.ReviewCount != nil || r2.Price != nil || len(r2.Categories) != 0 {
		t.Fatalf("absent fields must stay nil: %+v", r2)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestYelp_UnauthorizedFailsFast(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	cl, _ := upstream.NewYelp(ts.URL, "bad", 100)
	_, err := cl.SearchRestaurants(context.Background(), domain.RestaurantQuery{Location: "Boston", Limit: 1})
	if !upstream.IsAuth(err) || !errors.Is(err, domain.ErrTransientSource) {
		t.Fatalf("expected unauthorized transient error, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("401 must not be retried, got %d calls", hits)
	}
}

func TestYelp_MalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"businesses": "nope"}`))
	}))
	defer ts.Close()

	cl, _ := upstream.NewYelp(ts.URL, "k", 100)
	_, err := cl.SearchRestaurants(context.Background(), domain.RestaurantQuery{Location: "Boston", Limit: 1})
	if !errors.Is(err, upstream.ErrMalformed) || !errors.Is(err, domain.ErrTransientSource) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := upstream.NewYelp("http://x", "", 1); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := upstream.NewRentCast("http://x", "", 1); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRentCast_ListAndWrappedShapes(t *testing.T) {
	bodies := map[string]string{
		"0":  `[{"id":"l1","formattedAddress":"1 Main St, Boston, MA","city":"Boston","bedrooms":2,"bathrooms":1.5,"price":2500,"propertyType":"Apartment"}]`,
		"20": `{"listings":[{"id":"l2","city":"Boston"}]}`,
		"40": `{"something":"else"}`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "rk" {
			t.Errorf("missing api key header")
		}
		q := r.URL.Query()
		if r.URL.Path != "/listings/rental/long-term" || q.Get("city") != "Boston" || q.Get("state") != "MA" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_, _ = w.Write([]byte(bodies[q.Get("offset")]))
	}))
	defer ts.Close()

	cl, err := upstream.NewRentCast(ts.URL+"/", "rk", 100)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	list, err := cl.ListRentals(ctx, domain.RentalQuery{City: "Boston", State: "MA", Limit: 20, Offset: 0})
	if err != nil {
		t.Fatalf("list shape: %v", err)
	}
	if len(list) != 1 || *list[0].ID != "l1" || *list[0].Bedrooms != 2 || *list[0].Bathrooms != 1.5 || *list[0].PropertyType != "Apartment" {
		t.Fatalf("unexpected list: %+v", list)
	}

	wrapped, err := cl.ListRentals(ctx, domain.RentalQuery{City: "Boston", State: "MA", Limit: 20, Offset: 20})
	if err != nil {
		t.Fatalf("wrapped shape: %v", err)
	}
	if len(wrapped) != 1 || *wrapped[0].ID != "l2" || wrapped[0].Price != nil || wrapped[0].Bedrooms != nil {
		t.Fatalf("unexpected wrapped: %+v", wrapped)
	}

	if _, err := cl.ListRentals(ctx, domain.RentalQuery{City: "Boston", State: "MA", Limit: 20, Offset: 40}); !errors.Is(err, upstream.ErrMalformed) {
		t.Fatalf("expected malformed, got %v", err)
	}
}

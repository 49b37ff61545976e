package app

import (
	"context"
	"fmt"

	"food_rent/internal/domain"
)

// Writer persists fact rows with insert-if-absent semantics keyed on the
// external id. A duplicate is reported as domain.Ignored, never an error,
// and an existing row is never modified.
type Writer struct{ store domain.Store }

func NewWriter(s domain.Store) *Writer { return &Writer{store: s} }

func (w *Writer) WriteRestaurant(ctx context.Context, r domain.Restaurant) (domain.WriteOutcome, error) {
	out, err := w.store.InsertRestaurant(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("write restaurant %s: %w", r.ID, err)
	}
	return out, nil
}

func (w *Writer) WriteRental(ctx context.Context, r domain.Rental) (domain.WriteOutcome, error) {
	out, err := w.store.InsertRental(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("write rental %s: %w", r.ListingID, err)
	}
	return out, nil
}

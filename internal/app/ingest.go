package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"food_rent/internal/adapters/observability"
	"food_rent/internal/domain"
)

// BatchReport summarizes one fetch-and-persist cycle for a (city, dataset)
// pair. Err is set only when the batch was aborted before processing.
type BatchReport struct {
	City       string
	Dataset    domain.Dataset
	Offset     int
	Limit      int
	Fetched    int
	Normalized int
	Written    int
	Ignored    int
	Skipped    int
	Failed     int
	Exhausted  bool
	Err        error
}

type IngestOptions struct {
	Windows  map[domain.Dataset]WindowConfig
	Pace     time.Duration // delay after every upstream call
	Cache    domain.Cache  // optional dimension-id cache
	CacheTTL time.Duration
}

type IngestionService struct {
	store       domain.Store
	restaurants domain.RestaurantSource
	rentals     domain.RentalSource
	cursor      *Cursor
	norm        *Normalizer
	writer      *Writer
	pace        time.Duration
}

func NewIngestionService(s domain.Store, restaurants domain.RestaurantSource, rentals domain.RentalSource, opts IngestOptions) *IngestionService {
	return &IngestionService{
		store:       s,
		restaurants: restaurants,
		rentals:     rentals,
		cursor:      NewCursor(s, opts.Windows),
		norm:        NewNormalizer(NewRegistry(s, opts.Cache, opts.CacheTTL)),
		writer:      NewWriter(s),
		pace:        opts.Pace,
	}
}

// EnsureCities registers the configured cities and returns them with ids.
func (s *IngestionService) EnsureCities(ctx context.Context, specs []domain.CitySpec) ([]domain.City, error) {
	out := make([]domain.City, 0, len(specs))
	for _, spec := range specs {
		c, err := s.store.EnsureCity(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("ensure city %s: %w", spec.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// RunCity runs every dataset for one city, one batch at a time. Batches of
// the same (city, dataset) pair must never overlap: both would derive the
// same offset.
func (s *IngestionService) RunCity(ctx context.Context, city *domain.City) []BatchReport {
	reports := make([]BatchReport, 0, len(domain.Datasets))
	for _, ds := range domain.Datasets {
		if ctx.Err() != nil {
			break
		}
		reports = append(reports, s.RunBatch(ctx, city, ds))
	}
	return reports
}

// RunBatch computes the window, fetches one page and writes every record in
// it. Only a cursor or fetch failure aborts the batch; nothing is persisted
// in that case, so the next run retries the same window.
func (s *IngestionService) RunBatch(ctx context.Context, city *domain.City, ds domain.Dataset) BatchReport {
	rep := BatchReport{City: city.Name, Dataset: ds}
	l := log.With().Str("city", city.Name).Str("dataset", string(ds)).Logger()

	w, err := s.cursor.NextWindow(ctx, city.ID, ds)
	if err != nil {
		rep.Err = err
		l.Error().Err(err).Msg("cursor failed")
		observability.ObserveBatch(string(ds), "cursor_error")
		return rep
	}
	rep.Offset, rep.Limit = w.Offset, w.Size
	if w.Exhausted {
		rep.Exhausted = true
		l.Info().Int("offset", w.Offset).Msg("source paging limit reached, nothing to fetch")
		observability.ObserveBatch(string(ds), "exhausted")
		return rep
	}

	switch ds {
	case domain.DatasetRestaurants:
		err = s.restaurantBatch(ctx, city, w, &rep, l)
	case domain.DatasetRentals:
		err = s.rentalBatch(ctx, city, w, &rep, l)
	default:
		err = fmt.Errorf("unknown dataset %q", ds)
	}
	if err != nil {
		rep.Err = err
		l.Warn().Err(err).Int("offset", w.Offset).Msg("fetch failed, batch aborted")
		observability.ObserveBatch(string(ds), "fetch_error")
		return rep
	}

	observability.ObserveBatch(string(ds), "ok")
	observability.ObserveRecords(string(ds), "written", rep.Written)
	observability.ObserveRecords(string(ds), "ignored", rep.Ignored)
	observability.ObserveRecords(string(ds), "skipped", rep.Skipped)
	observability.ObserveRecords(string(ds), "failed", rep.Failed)
	l.Info().
		Int("offset", rep.Offset).
		Int("fetched", rep.Fetched).
		Int("normalized", rep.Normalized).
		Int("written", rep.Written).
		Int("ignored", rep.Ignored).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Msg("batch done")
	return rep
}

func (s *IngestionService) restaurantBatch(ctx context.Context, city *domain.City, w Window, rep *BatchReport, l zerolog.Logger) error {
	page, err := s.restaurants.SearchRestaurants(ctx, domain.RestaurantQuery{Location: city.Name, Limit: w.Size, Offset: w.Offset})
	s.paceAfterCall(ctx)
	if err != nil {
		return err
	}
	rep.Fetched = len(page)
	for _, raw := range page {
		nr, err := s.norm.NormalizeRestaurant(ctx, raw, *city)
		if !s.accept(rep, err, l) {
			continue
		}
		out, err := s.writer.WriteRestaurant(ctx, nr.Row)
		s.tally(rep, out, err, l)
		if err == nil {
			s.fillZip(ctx, city, nr.Zip, l)
		}
	}
	return nil
}

func (s *IngestionService) rentalBatch(ctx context.Context, city *domain.City, w Window, rep *BatchReport, l zerolog.Logger) error {
	page, err := s.rentals.ListRentals(ctx, domain.RentalQuery{City: city.Name, State: city.State, Limit: w.Size, Offset: w.Offset})
	s.paceAfterCall(ctx)
	if err != nil {
		return err
	}
	rep.Fetched = len(page)
	for _, raw := range page {
		nr, err := s.norm.NormalizeRental(ctx, raw, *city)
		if !s.accept(rep, err, l) {
			continue
		}
		out, err := s.writer.WriteRental(ctx, nr.Row)
		s.tally(rep, out, err, l)
		if err == nil {
			s.fillZip(ctx, city, nr.Zip, l)
		}
	}
	return nil
}

// accept counts a normalization result and reports whether to write it.
func (s *IngestionService) accept(rep *BatchReport, err error, l zerolog.Logger) bool {
	switch {
	case err == nil:
		rep.Normalized++
		return true
	case errors.Is(err, domain.ErrMalformedRecord):
		rep.Skipped++
		l.Debug().Err(err).Msg("record skipped")
	default:
		rep.Failed++
		l.Warn().Err(err).Msg("record normalization failed")
	}
	return false
}

func (s *IngestionService) tally(rep *BatchReport, out domain.WriteOutcome, err error, l zerolog.Logger) {
	switch {
	case err != nil:
		rep.Failed++
		l.Warn().Err(err).Msg("record write failed")
	case out == domain.Inserted:
		rep.Written++
	default:
		rep.Ignored++
	}
}

// fillZip records the zip of the first stored record for a city that has
// none.
func (s *IngestionService) fillZip(ctx context.Context, city *domain.City, zip string, l zerolog.Logger) {
	if zip == "" || city.Zip != nil {
		return
	}
	changed, err := s.store.SetCityZip(ctx, city.ID, zip)
	if err != nil {
		l.Warn().Err(err).Msg("set city zip failed")
		return
	}
	if changed {
		l.Info().Str("zip", zip).Msg("city zip recorded")
	}
	// Either we set it or someone else already had; stop trying for this city.
	z := zip
	city.Zip = &z
}

func (s *IngestionService) paceAfterCall(ctx context.Context) {
	if s.pace <= 0 {
		return
	}
	t := time.NewTimer(s.pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

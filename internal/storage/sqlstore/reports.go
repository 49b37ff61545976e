package sqlstore

import (
	"context"
	"database/sql"

	"food_rent/internal/domain"
)

func (r *Repo) ListCities(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.QueryContext(ctx, listCitiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) CitySummaries(ctx context.Context) ([]domain.CitySummary, error) {
	rows, err := r.db.QueryContext(ctx, citySummariesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CitySummary
	for rows.Next() {
		var s domain.CitySummary
		var zip sql.NullString
		var avgRating, avgRent sql.NullFloat64
		if err := rows.Scan(&s.CityID, &s.Name, &s.State, &zip,
			&s.RestaurantCount, &avgRating, &s.RentalCount, &avgRent); err != nil {
			return nil, err
		}
		if zip.Valid {
			z := zip.String
			s.Zip = &z
		}
		if avgRating.Valid {
			f := avgRating.Float64
			s.AvgRating = &f
		}
		if avgRent.Valid {
			f := avgRent.Float64
			s.AvgRent = &f
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) AverageRent(ctx context.Context) ([]domain.CityRent, error) {
	rows, err := r.db.QueryContext(ctx, averageRentSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CityRent
	for rows.Next() {
		var cr domain.CityRent
		var avg sql.NullFloat64
		if err := rows.Scan(&cr.CityID, &cr.Name, &avg); err != nil {
			return nil, err
		}
		if avg.Valid {
			f := avg.Float64
			cr.AverageRent = &f
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

func (r *Repo) TopCategories(ctx context.Context, cityID int64, limit int) ([]domain.LabelCount, error) {
	return r.labelCounts(ctx, topCategoriesSQL, cityID, limit)
}

func (r *Repo) PriceDistribution(ctx context.Context) ([]domain.LabelCount, error) {
	return r.labelCounts(ctx, priceDistributionSQL)
}

func (r *Repo) labelCounts(ctx context.Context, q string, args ...any) ([]domain.LabelCount, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LabelCount
	for rows.Next() {
		var lc domain.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

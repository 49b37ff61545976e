// Package csvexport renders report rows as CSV. NULL aggregates become
// empty cells.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"food_rent/internal/domain"
)

var (
	rentHeader    = []string{"city_id", "city_name", "average_rent"}
	summaryHeader = []string{"city_id", "city_name", "state", "zip", "restaurant_count", "avg_rating", "rental_count", "avg_rent"}
)

func WriteAverageRent(w io.Writer, rows []domain.CityRent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rentHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{strconv.FormatInt(r.CityID, 10), r.Name, float(r.AverageRent)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSummaries(w io.Writer, rows []domain.CitySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range rows {
		zip := ""
		if s.Zip != nil {
			zip = *s.Zip
		}
		rec := []string{
			strconv.FormatInt(s.CityID, 10),
			s.Name,
			s.State,
			zip,
			strconv.FormatInt(s.RestaurantCount, 10),
			float(s.AvgRating),
			strconv.FormatInt(s.RentalCount, 10),
			float(s.AvgRent),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func float(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

package linear_regression

import (
	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// DataPointsFromSeries последние days непустых значений new_cases_smoothed ряда.
// X считается в днях от первой выбранной даты
func DataPointsFromSeries(series []models.EnrichedRecord, days int) []DataPoint {
	var valid []models.EnrichedRecord
	for _, r := range series {
		if r.NewCasesSmoothed.Valid {
			valid = append(valid, r)
		}
	}
	if days > 0 && len(valid) > days {
		valid = valid[len(valid)-days:]
	}
	if len(valid) == 0 {
		return nil
	}

	start := valid[0].Date
	points := make([]DataPoint, len(valid))
	for i, r := range valid {
		points[i] = DataPoint{
			X:    r.Date.Sub(start).Hours() / 24,
			Y:    r.NewCasesSmoothed.Float64,
			Date: r.Date,
		}
	}
	return points
}

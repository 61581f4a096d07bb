package transform

import (
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// MapSnapshot строки полного набора на последнюю дату с вычисленным vaccination_rate
func MapSnapshot(records []models.Record) (time.Time, []models.MapRow) {
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	if latest.IsZero() {
		return latest, nil
	}

	var rows []models.MapRow
	for _, r := range records {
		if !r.Date.Equal(latest) {
			continue
		}
		rows = append(rows, models.MapRow{
			Location:        r.Location,
			ISOCode:         r.ISOCode,
			TotalCases:      r.TotalCases,
			VaccinationRate: VaccinationRate(r),
		})
	}
	return latest, rows
}

package transform

import (
	"database/sql"
	"sort"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// CaseFatalityRate total_deaths / total_cases * 100 либо null
func CaseFatalityRate(r models.Record) sql.NullFloat64 {
	return models.Percent(r.TotalDeaths, r.TotalCases)
}

// VaccinationRate people_fully_vaccinated / population * 100 либо null
func VaccinationRate(r models.Record) sql.NullFloat64 {
	return models.Percent(r.PeopleFullyVaccinated, r.Population)
}

// Enrich добавляет к строке производные показатели
func Enrich(r models.Record) models.EnrichedRecord {
	return models.EnrichedRecord{
		Record:           r,
		CaseFatalityRate: CaseFatalityRate(r),
		VaccinationRate:  VaccinationRate(r),
	}
}

// FilterCountries оставляет строки стран из списка и обогащает их.
// Результат упорядочен по локации, затем по дате; исходный порядок сохраняется при равенстве
func FilterCountries(records []models.Record, countries []string) []models.EnrichedRecord {
	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[c] = struct{}{}
	}

	var out []models.EnrichedRecord
	for _, r := range records {
		if _, ok := allowed[r.Location]; ok {
			out = append(out, Enrich(r))
		}
	}

	sortByLocationAndDate(out)
	return out
}

// SeriesFor обогащенный ряд одной локации в хронологическом порядке
func SeriesFor(records []models.Record, location string) []models.EnrichedRecord {
	var out []models.EnrichedRecord
	for _, r := range records {
		if r.Location == location {
			out = append(out, Enrich(r))
		}
	}

	sortByLocationAndDate(out)
	return out
}

func sortByLocationAndDate(rows []models.EnrichedRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Location != rows[j].Location {
			return rows[i].Location < rows[j].Location
		}
		return rows[i].Date.Before(rows[j].Date)
	})
}

package transform

import (
	"sort"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// latestBy оставляет по одной строке на локацию с наибольшей датой.
// При совпадении дат побеждает строка, идущая позже во входных данных.
// Строки без локации пропускаются
func latestBy[T any](rows []T, key func(T) (string, time.Time)) []T {
	index := make(map[string]int)
	var order []string

	for i, row := range rows {
		location, date := key(row)
		if location == "" {
			continue
		}

		prev, ok := index[location]
		if !ok {
			index[location] = i
			order = append(order, location)
			continue
		}
		if _, prevDate := key(rows[prev]); !date.Before(prevDate) {
			index[location] = i
		}
	}

	out := make([]T, 0, len(order))
	for _, location := range order {
		out = append(out, rows[index[location]])
	}
	return out
}

// LatestByLocation последняя по дате строка каждой локации, по убыванию total_cases
// (пустые значения в конце, при равенстве по названию локации)
func LatestByLocation(records []models.Record) []models.Record {
	latest := latestBy(records, func(r models.Record) (string, time.Time) {
		return r.Location, r.Date
	})

	sort.SliceStable(latest, func(i, j int) bool {
		if before, decided := models.RankDesc(latest[i].TotalCases, latest[j].TotalCases); decided {
			return before
		}
		return latest[i].Location < latest[j].Location
	})
	return latest
}

// LatestEnriched последняя строка каждой отфильтрованной локации, по убыванию vaccination_rate
func LatestEnriched(rows []models.EnrichedRecord) []models.EnrichedRecord {
	latest := latestBy(rows, func(r models.EnrichedRecord) (string, time.Time) {
		return r.Location, r.Date
	})

	sort.SliceStable(latest, func(i, j int) bool {
		if before, decided := models.RankDesc(latest[i].VaccinationRate, latest[j].VaccinationRate); decided {
			return before
		}
		return latest[i].Location < latest[j].Location
	})
	return latest
}

// TopN первые n элементов
func TopN[T any](rows []T, n int) []T {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

package report

import (
	"database/sql"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/transform"
)

// RankedValue локация и значение показателя
type RankedValue struct {
	Location string  `json:"location"`
	Value    float64 `json:"value"`
}

// GlobalSummary итоговые показатели отчета
type GlobalSummary struct {
	HasWorld              bool
	AsOf                  time.Time
	TotalCases            sql.NullFloat64
	TotalDeaths           sql.NullFloat64
	CaseFatalityRate      sql.NullFloat64
	PeopleFullyVaccinated sql.NullFloat64
	VaccinationRate       sql.NullFloat64
	HighestCFR            *RankedValue
	HighestVaccination    *RankedValue
	GrowthRate            sql.NullFloat64
	GrowthWindow          int
}

// BuildSummary собирает итоги по последней строке World и отфильтрованным снимкам
func BuildSummary(data *models.TransformedData, growthWindow int) GlobalSummary {
	summary := GlobalSummary{GrowthWindow: growthWindow}

	if n := len(data.World); n > 0 {
		latest := data.World[n-1]
		summary.HasWorld = true
		summary.AsOf = latest.Date
		summary.TotalCases = latest.TotalCases
		summary.TotalDeaths = latest.TotalDeaths
		summary.CaseFatalityRate = transform.CaseFatalityRate(latest.Record)
		summary.PeopleFullyVaccinated = latest.PeopleFullyVaccinated
		if latest.PeopleFullyVaccinated.Valid {
			summary.VaccinationRate = transform.VaccinationRate(latest.Record)
		}
	}

	summary.HighestCFR = highest(data.LatestFiltered, func(r models.EnrichedRecord) sql.NullFloat64 {
		return r.CaseFatalityRate
	})
	summary.HighestVaccination = highest(data.LatestFiltered, func(r models.EnrichedRecord) sql.NullFloat64 {
		return r.VaccinationRate
	})
	summary.GrowthRate = GrowthRate(data.World, growthWindow)

	return summary
}

// highest первая строка с максимальным непустым значением
func highest(rows []models.EnrichedRecord, value func(models.EnrichedRecord) sql.NullFloat64) *RankedValue {
	var best *RankedValue
	for _, r := range rows {
		v := value(r)
		if !v.Valid {
			continue
		}
		if best == nil || v.Float64 > best.Value {
			best = &RankedValue{Location: r.Location, Value: v.Float64}
		}
	}
	return best
}

// GrowthRate среднее дневное изменение new_cases в процентах по последним window строкам ряда.
// Пары с пустым значением или нулевым предыдущим значением пропускаются
func GrowthRate(series []models.EnrichedRecord, window int) sql.NullFloat64 {
	if window <= 0 {
		return sql.NullFloat64{}
	}
	tail := series[max(0, len(series)-window):]

	var (
		sum   float64
		count int
	)
	for i := 1; i < len(tail); i++ {
		prev, cur := tail[i-1].NewCases, tail[i].NewCases
		if !prev.Valid || !cur.Valid || prev.Float64 == 0 {
			continue
		}
		sum += (cur.Float64 - prev.Float64) / prev.Float64
		count++
	}

	if count == 0 {
		return sql.NullFloat64{}
	}
	return models.Value(sum / float64(count) * 100)
}

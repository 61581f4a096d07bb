package models

import (
	"database/sql"
	"time"
)

// Колонки исходного набора данных OWID
const (
	ColDate                  = "date"
	ColLocation              = "location"
	ColISOCode               = "iso_code"
	ColPopulation            = "population"
	ColTotalCases            = "total_cases"
	ColNewCases              = "new_cases"
	ColTotalDeaths           = "total_deaths"
	ColNewDeaths             = "new_deaths"
	ColTotalVaccinations     = "total_vaccinations"
	ColPeopleVaccinated      = "people_vaccinated"
	ColPeopleFullyVaccinated = "people_fully_vaccinated"
)

// Производные колонки
const (
	ColCaseFatalityRate = "case_fatality_rate"
	ColVaccinationRate  = "vaccination_rate"
	ColNewCasesSmoothed = "new_cases_smoothed"
)

// WorldLocation агрегированная локация "весь мир"
const WorldLocation = "World"

// RequiredColumns колонки, без которых набор данных не принимается
var RequiredColumns = []string{
	ColDate, ColLocation, ColISOCode, ColPopulation,
	ColTotalCases, ColNewCases, ColTotalDeaths, ColNewDeaths,
	ColTotalVaccinations, ColPeopleVaccinated, ColPeopleFullyVaccinated,
}

// KeyMetrics метрики, по которым строится профиль набора данных
var KeyMetrics = []string{
	ColTotalCases, ColNewCases, ColTotalDeaths, ColNewDeaths,
	ColTotalVaccinations, ColPeopleVaccinated, ColPeopleFullyVaccinated,
}

// CorrelationMetrics метрики корреляционной матрицы
var CorrelationMetrics = []string{
	ColTotalCases, ColTotalDeaths, ColTotalVaccinations,
	ColPeopleVaccinated, ColPeopleFullyVaccinated, ColPopulation,
}

// DefaultCountries страны, которые сравниваются на графиках
var DefaultCountries = []string{
	"World", "United States", "India", "Brazil", "United Kingdom",
	"South Africa", "Kenya", "Australia", "China", "Germany",
}

// Record одна строка исходных данных (локация, дата)
type Record struct {
	Date                  time.Time
	Location              string
	ISOCode               string
	Population            sql.NullFloat64
	TotalCases            sql.NullFloat64
	NewCases              sql.NullFloat64
	TotalDeaths           sql.NullFloat64
	NewDeaths             sql.NullFloat64
	TotalVaccinations     sql.NullFloat64
	PeopleVaccinated      sql.NullFloat64
	PeopleFullyVaccinated sql.NullFloat64
}

// EnrichedRecord строка отфильтрованного набора с производными метриками
type EnrichedRecord struct {
	Record
	CaseFatalityRate sql.NullFloat64
	VaccinationRate  sql.NullFloat64
	NewCasesSmoothed sql.NullFloat64
}

// Metric возвращает значение колонки по имени; false, если колонка неизвестна
func (r Record) Metric(column string) (sql.NullFloat64, bool) {
	switch column {
	case ColPopulation:
		return r.Population, true
	case ColTotalCases:
		return r.TotalCases, true
	case ColNewCases:
		return r.NewCases, true
	case ColTotalDeaths:
		return r.TotalDeaths, true
	case ColNewDeaths:
		return r.NewDeaths, true
	case ColTotalVaccinations:
		return r.TotalVaccinations, true
	case ColPeopleVaccinated:
		return r.PeopleVaccinated, true
	case ColPeopleFullyVaccinated:
		return r.PeopleFullyVaccinated, true
	}
	return sql.NullFloat64{}, false
}

// Metric дополняет Record.Metric производными колонками
func (r EnrichedRecord) Metric(column string) (sql.NullFloat64, bool) {
	switch column {
	case ColCaseFatalityRate:
		return r.CaseFatalityRate, true
	case ColVaccinationRate:
		return r.VaccinationRate, true
	case ColNewCasesSmoothed:
		return r.NewCasesSmoothed, true
	}
	return r.Record.Metric(column)
}

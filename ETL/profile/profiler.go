package profile

import (
	"database/sql"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// Profiler строит диагностический профиль сырого набора данных
type Profiler struct {
	logger  *utils.ETLLogger
	metrics []string
}

// NewProfiler создает новый экземпляр Profiler
func NewProfiler(logger *utils.ETLLogger) *Profiler {
	return &Profiler{
		logger:  logger,
		metrics: models.KeyMetrics,
	}
}

// Profile вычисляет размер, диапазон дат, число локаций, статистику и пропуски.
// Набор данных не изменяется
func (p *Profiler) Profile(ds *models.Dataset) (*models.DatasetProfile, error) {
	p.logger.Debug("Построение профиля набора данных...")

	rows := ds.Rows()
	profile := &models.DatasetProfile{
		Rows:    rows,
		Columns: len(ds.Columns),
		Header:  ds.Columns,
	}

	// 1. Диапазон дат по исходным строкам
	dates := ds.Frame.Col(models.ColDate)
	if dates.Err != nil {
		return nil, fmt.Errorf("ошибка чтения колонки %s: %w", models.ColDate, dates.Err)
	}
	profile.MinDate, profile.MaxDate = dateRange(dates.Records())

	// 2. Количество различных локаций
	locations := ds.Frame.Col(models.ColLocation)
	if locations.Err != nil {
		return nil, fmt.Errorf("ошибка чтения колонки %s: %w", models.ColLocation, locations.Err)
	}
	profile.Locations = distinct(locations.Records())

	// 3. Статистика и пропуски по ключевым метрикам
	for _, column := range p.metrics {
		col := ds.Frame.Col(column)
		if col.Err != nil {
			return nil, fmt.Errorf("ошибка чтения колонки %s: %w", column, col.Err)
		}

		values := present(col.Float())
		profile.Summary = append(profile.Summary, Describe(column, values))

		missing := rows - len(values)
		profile.Missing = append(profile.Missing, models.MissingStat{
			Column:  column,
			Missing: missing,
			Percent: missingPercent(missing, rows),
		})
	}

	p.logger.Debug("Профиль построен: %d строк, %d локаций", profile.Rows, profile.Locations)
	return profile, nil
}

// Describe считает count, mean, std, min, квартили и max по непустым значениям
func Describe(column string, values []float64) models.ColumnSummary {
	summary := models.ColumnSummary{Column: column, Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) > 1 {
		mean, std := stat.MeanStdDev(sorted, nil)
		summary.Mean = models.Value(mean)
		summary.Std = models.Value(std)
	} else {
		summary.Mean = models.Value(sorted[0])
	}
	summary.Min = models.Value(floats.Min(sorted))
	summary.Max = models.Value(floats.Max(sorted))
	summary.P25 = quantile(sorted, 0.25)
	summary.P50 = quantile(sorted, 0.50)
	summary.P75 = quantile(sorted, 0.75)

	return summary
}

// quantile линейная интерполяция между соседними порядковыми статистиками
// (позиция (n-1)*p), значения должны быть отсортированы
func quantile(sorted []float64, p float64) sql.NullFloat64 {
	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return models.Value(sorted[lo] + (sorted[hi]-sorted[lo])*frac)
}

func missingPercent(missing, rows int) float64 {
	if rows == 0 {
		return 0
	}
	return math.Round(float64(missing)/float64(rows)*100*100) / 100
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// dateRange сравнивает сырые значения как строки, пустые значения пропускаются
func dateRange(values []string) (string, string) {
	var minDate, maxDate string
	for _, v := range values {
		if v == "" {
			continue
		}
		if minDate == "" || v < minDate {
			minDate = v
		}
		if v > maxDate {
			maxDate = v
		}
	}
	return minDate, maxDate
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, 256)
	for _, v := range values {
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

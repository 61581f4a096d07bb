package transform

import (
	"database/sql"

	"gonum.org/v1/gonum/stat"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// Correlation матрица Пирсона по попарно полным наблюдениям.
// Пара с менее чем двумя наблюдениями или нулевой дисперсией дает null
func Correlation(rows []models.EnrichedRecord, columns []string) models.CorrelationMatrix {
	matrix := models.CorrelationMatrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]sql.NullFloat64, len(columns)),
	}

	for i := range columns {
		matrix.Values[i] = make([]sql.NullFloat64, len(columns))
	}

	for i := range columns {
		for j := i; j < len(columns); j++ {
			value := pairwise(rows, columns[i], columns[j])
			matrix.Values[i][j] = value
			matrix.Values[j][i] = value
		}
	}
	return matrix
}

func pairwise(rows []models.EnrichedRecord, a, b string) sql.NullFloat64 {
	var xs, ys []float64
	for _, r := range rows {
		x, okX := r.Metric(a)
		y, okY := r.Metric(b)
		if !okX || !okY || !x.Valid || !y.Valid {
			continue
		}
		xs = append(xs, x.Float64)
		ys = append(ys, y.Float64)
	}

	if len(xs) < 2 {
		return sql.NullFloat64{}
	}
	// Нулевая дисперсия дает NaN, который Value превращает в null
	return models.Value(stat.Correlation(xs, ys, nil))
}

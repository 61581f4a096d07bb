package report

import (
	"database/sql"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// aggregatePrefix ISO-коды агрегатов OWID (World, континенты, группы доходов)
const aggregatePrefix = "OWID_"

// BuildChoropleth карта мира по значению value. Регионы сопоставляются по ISO-коду,
// агрегаты OWID и строки без значения на карту не попадают
func BuildChoropleth(title, series string, rows []models.MapRow, value func(models.MapRow) sql.NullFloat64) (*charts.Map, error) {
	var (
		data []opts.MapData
		peak float64
	)
	for _, r := range rows {
		name, ok := regionName(r.ISOCode, r.Location)
		if !ok {
			continue
		}
		v := value(r)
		if !v.Valid {
			continue
		}
		data = append(data, opts.MapData{Name: name, Value: v.Float64})
		if v.Float64 > peak {
			peak = v.Float64
		}
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}

	m := charts.NewMap()
	m.RegisterMapType("world")
	m.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			InRange:    &opts.VisualMapInRange{Color: []string{"#fff5eb", "#fd8d3c", "#7f2704"}},
		}),
	)
	m.AddSeries(series, data)
	return m, nil
}

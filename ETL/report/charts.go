package report

import (
	"database/sql"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// ErrNoData метрика полностью отсутствует, график пропускается
var ErrNoData = errors.New("нет данных для графика")

// gap значение, которое ECharts рисует как разрыв линии
const gap = "-"

// LineSpec описание линейного графика по странам
type LineSpec struct {
	Name   string
	Title  string
	YAxis  string
	Metric string
}

// LineCharts графики временных рядов по странам из списка
var LineCharts = []LineSpec{
	{Name: "total_cases", Title: "Total COVID-19 Cases Over Time", YAxis: "Total Cases", Metric: models.ColTotalCases},
	{Name: "total_deaths", Title: "Total COVID-19 Deaths Over Time", YAxis: "Total Deaths", Metric: models.ColTotalDeaths},
	{Name: "case_fatality_rate", Title: "COVID-19 Case Fatality Rate Over Time", YAxis: "Case Fatality Rate (%)", Metric: models.ColCaseFatalityRate},
	{Name: "new_cases_smoothed", Title: "Daily New COVID-19 Cases (7-day Moving Average)", YAxis: "New Cases", Metric: models.ColNewCasesSmoothed},
	{Name: "people_vaccinated", Title: "Cumulative COVID-19 Vaccinations Over Time", YAxis: "People Vaccinated", Metric: models.ColPeopleVaccinated},
	{Name: "vaccination_rate", Title: "COVID-19 Vaccination Rate Over Time", YAxis: "Vaccination Rate (% of Population)", Metric: models.ColVaccinationRate},
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "1400px",
		Height:    "800px",
	})
}

// BuildLineChart строит по линии на страну. Ось X объединяет даты всех стран,
// пропущенные даты остаются разрывами. Страны без единого значения пропускаются
func BuildLineChart(spec LineSpec, rows []models.EnrichedRecord, countries []string) (*charts.Line, error) {
	byCountry := make(map[string]map[time.Time]sql.NullFloat64, len(countries))
	dateSet := make(map[time.Time]struct{})
	for _, r := range rows {
		v, ok := r.Metric(spec.Metric)
		if !ok {
			continue
		}
		dateSet[r.Date] = struct{}{}
		if byCountry[r.Location] == nil {
			byCountry[r.Location] = make(map[time.Time]sql.NullFloat64)
		}
		byCountry[r.Location][r.Date] = v
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	axis := make([]string, len(dates))
	for i, d := range dates {
		axis[i] = d.Format(time.DateOnly)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(spec.Title),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YAxis}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(axis)

	series := 0
	for _, country := range countries {
		values := byCountry[country]
		data := make([]opts.LineData, len(dates))
		present := false
		for i, d := range dates {
			v, ok := values[d]
			if !ok || !v.Valid {
				data[i] = opts.LineData{Value: gap}
				continue
			}
			data[i] = opts.LineData{Value: v.Float64}
			present = true
		}
		if !present {
			continue
		}
		line.AddSeries(country, data)
		series++
	}

	if series == 0 {
		return nil, ErrNoData
	}
	return line, nil
}

// Bar одна полоса горизонтальной диаграммы
type Bar struct {
	Label string
	Value sql.NullFloat64
}

// BuildBarChart горизонтальная диаграмма; первая полоса оказывается сверху.
// Полосы без значения не рисуются
func BuildBarChart(title, xAxis, yAxis string, bars []Bar) (*charts.Bar, error) {
	var (
		labels []string
		data   []opts.BarData
	)
	// ECharts рисует категории снизу вверх
	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Value.Valid {
			continue
		}
		labels = append(labels, bars[i].Label)
		data = append(data, opts.BarData{Value: bars[i].Value.Float64})
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: yAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: xAxis}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	bar.SetXAxis(labels).AddSeries(xAxis, data)
	bar.XYReversal()
	return bar, nil
}

// BuildHeatMap корреляционная матрица с подписями ячеек (два знака)
func BuildHeatMap(title string, matrix models.CorrelationMatrix) (*charts.HeatMap, error) {
	var data []opts.HeatMapData
	for i := range matrix.Columns {
		for j := range matrix.Columns {
			v := matrix.Values[i][j]
			if !v.Valid {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, gap}})
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, math.Round(v.Float64*100) / 100}})
		}
	}

	valid := false
	for _, row := range matrix.Values {
		for _, v := range row {
			valid = valid || v.Valid
		}
	}
	if !valid {
		return nil, ErrNoData
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: matrix.Columns}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: matrix.Columns}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#3b4cc0", "#f7f7f7", "#b40426"}},
		}),
	)
	hm.SetXAxis(matrix.Columns).AddSeries("correlation", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm, nil
}

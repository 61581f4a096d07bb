package report

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func enriched(location, date string, totalCases sql.NullFloat64) models.EnrichedRecord {
	return models.EnrichedRecord{Record: models.Record{Location: location, Date: day(date), TotalCases: totalCases}}
}

func TestBuildLineChart_GapsAndSkippedCountries(t *testing.T) {
	rows := []models.EnrichedRecord{
		enriched("Kenya", "2021-01-01", models.Value(1)),
		enriched("Kenya", "2021-01-03", models.Value(3)),
		enriched("World", "2021-01-02", models.Value(20)),
		enriched("India", "2021-01-02", sql.NullFloat64{}),
	}

	line, err := BuildLineChart(LineCharts[0], rows, []string{"World", "India", "Kenya"})
	require.NoError(t, err)
	require.Len(t, line.MultiSeries, 2)

	assert.Equal(t, "World", line.MultiSeries[0].Name)
	assert.Equal(t, "Kenya", line.MultiSeries[1].Name)

	kenya, ok := line.MultiSeries[1].Data.([]opts.LineData)
	require.True(t, ok)
	require.Len(t, kenya, 3)
	assert.Equal(t, 1.0, kenya[0].Value)
	assert.Equal(t, gap, kenya[1].Value)
	assert.Equal(t, 3.0, kenya[2].Value)

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))
	assert.Contains(t, buf.String(), "Total COVID-19 Cases Over Time")
}

func TestBuildLineChart_NoData(t *testing.T) {
	rows := []models.EnrichedRecord{enriched("Kenya", "2021-01-01", models.Value(1))}

	_, err := BuildLineChart(LineCharts[4], rows, []string{"Kenya"})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = BuildLineChart(LineCharts[0], rows, []string{"World"})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuildBarChart(t *testing.T) {
	bar, err := BuildBarChart("Top", "Total Cases", "Country", []Bar{
		{Label: "A", Value: models.Value(30)},
		{Label: "B", Value: sql.NullFloat64{}},
		{Label: "C", Value: models.Value(10)},
	})
	require.NoError(t, err)
	require.Len(t, bar.MultiSeries, 1)

	data, ok := bar.MultiSeries[0].Data.([]opts.BarData)
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Equal(t, 10.0, data[0].Value)
	assert.Equal(t, 30.0, data[1].Value)

	_, err = BuildBarChart("Top", "x", "y", []Bar{{Label: "A"}})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuildHeatMap(t *testing.T) {
	matrix := models.CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values: [][]sql.NullFloat64{
			{models.Value(1), models.Value(0.123)},
			{models.Value(0.123), {}},
		},
	}
	hm, err := BuildHeatMap("Correlation", matrix)
	require.NoError(t, err)

	data, ok := hm.MultiSeries[0].Data.([]opts.HeatMapData)
	require.True(t, ok)
	require.Len(t, data, 4)
	assert.Equal(t, [3]interface{}{1, 0, 0.12}, data[1].Value)
	assert.Equal(t, [3]interface{}{1, 1, gap}, data[3].Value)

	_, err = BuildHeatMap("Correlation", models.CorrelationMatrix{
		Columns: []string{"a"},
		Values:  [][]sql.NullFloat64{{{}}},
	})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuildChoropleth_ExcludesAggregates(t *testing.T) {
	rows := []models.MapRow{
		{Location: "World", ISOCode: "OWID_WRL", TotalCases: models.Value(1000)},
		{Location: "Kosovo", ISOCode: "", TotalCases: models.Value(5)},
		{Location: "Kenya", ISOCode: "KEN", TotalCases: models.Value(10)},
		{Location: "France", ISOCode: "FRA"},
		{Location: "Democratic Republic of Congo", ISOCode: "COD", TotalCases: models.Value(20)},
		{Location: "Czechia", ISOCode: "CZE", TotalCases: models.Value(30)},
		{Location: "South Korea", ISOCode: "KOR", TotalCases: models.Value(40)},
		{Location: "Kosovo", ISOCode: "OWID_KOS", TotalCases: models.Value(50)},
	}
	cases := func(r models.MapRow) sql.NullFloat64 { return r.TotalCases }

	m, err := BuildChoropleth("Cases", "Total Cases", rows, cases)
	require.NoError(t, err)

	data, ok := m.MultiSeries[0].Data.([]opts.MapData)
	require.True(t, ok)
	names := make([]string, 0, len(data))
	for _, d := range data {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Kenya", "Dem. Rep. Congo", "Czech Rep.", "Korea", "Kosovo"}, names)

	_, err = BuildChoropleth("Cases", "Total Cases", rows[:2], cases)
	assert.ErrorIs(t, err, ErrNoData)
}

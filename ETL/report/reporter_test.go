package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/extractors"
	"github.com/LilVoxy/covid_tracker/ETL/linear_regression"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/transform"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

const reportCSV = `iso_code,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated,people_fully_vaccinated,population
OWID_WRL,World,2021-01-01,100,10,2,1,,,,1000
OWID_WRL,World,2021-01-02,120,20,3,1,50,40,10,1000
KEN,Kenya,2021-01-01,0,0,0,0,,,,200
KEN,Kenya,2021-01-02,10,10,1,1,,,20,200
FRA,France,2021-01-02,500,50,10,1,,,,300
`

// failingSink отказывает в сохранении выбранных графиков
type failingSink struct {
	*MemorySink
	fail  map[string]bool
	crash map[string]bool
}

func (s failingSink) Save(name string, chart Renderer) error {
	if s.crash[name] {
		panic("renderer crashed")
	}
	if s.fail[name] {
		return errors.New("disk full")
	}
	return s.MemorySink.Save(name, chart)
}

func transformed(t *testing.T, csv string) *models.TransformedData {
	t.Helper()
	frame, header, err := extractors.ReadDataset(strings.NewReader(csv))
	require.NoError(t, err)
	data, err := transform.NewTransformer(config.GetConfig().Analysis, utils.NewNopLogger()).
		Transform(&models.Dataset{Frame: frame, Columns: header})
	require.NoError(t, err)
	return data
}

func TestReporter_Report(t *testing.T) {
	var out bytes.Buffer
	sink := NewMemorySink()
	reporter := NewReporter(&out, sink, config.GetConfig().Analysis, utils.NewNopLogger())

	res := reporter.Report(transformed(t, reportCSV))
	reporter.ReportFooter()
	text := out.String()

	for _, section := range []string{sectionCleaning, sectionEDA, sectionVaccination, sectionMaps, sectionInsights} {
		assert.Contains(t, text, section)
	}
	assert.Contains(t, text, "Filtered dataset shape: (4, 11)")
	assert.Contains(t, text, "France")
	assert.Contains(t, text, "Global COVID-19 Statistics (as of 2021-01-02):")
	assert.Contains(t, text, "- Total Cases: 120")
	assert.Contains(t, text, "- Global Case Fatality Rate: 2.50%")
	assert.Contains(t, text, "- People Fully Vaccinated: 10")
	assert.Contains(t, text, "- Global Vaccination Rate: 1.00%")
	assert.Contains(t, text, "Country with highest case fatality rate: Kenya (10.00%)")
	assert.Contains(t, text, "Country with highest vaccination rate: Kenya (10.00%)")
	assert.Contains(t, text, "Average global case growth rate (last 30 days): 100.00%")
	assert.True(t, strings.HasSuffix(text, "Report completed successfully!\n"))

	assert.Empty(t, res.Failed)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, res.Rendered, sink.Names())
	assert.Contains(t, res.Rendered, ChartCasesMap)
	assert.Contains(t, res.Rendered, ChartVaccinationMap)
	assert.Len(t, res.Rendered, len(LineCharts)+5)

	html, ok := sink.Chart(ChartCasesMap)
	require.True(t, ok)
	assert.Contains(t, string(html), "Global COVID-19 Cases (as of 2021-01-02)")
}

func TestReporter_MissingMetricsAreSkipped(t *testing.T) {
	csv := `iso_code,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated,people_fully_vaccinated,population
OWID_WRL,World,2021-01-01,100,10,2,1,,,,1000
OWID_WRL,World,2021-01-02,120,20,3,1,,,,1000
`
	var out bytes.Buffer
	res := NewReporter(&out, NewMemorySink(), config.GetConfig().Analysis, utils.NewNopLogger()).
		Report(transformed(t, csv))
	text := out.String()

	assert.Contains(t, text, "Skipping Cumulative COVID-19 Vaccinations Over Time: no data available")
	assert.Contains(t, text, "Skipping vaccination choropleth map: no data available")
	assert.Contains(t, text, vaccinationDataMissing)
	assert.ElementsMatch(t, []string{
		"people_vaccinated", "vaccination_rate", ChartVaccinationRates, ChartCasesMap, ChartVaccinationMap,
	}, res.Skipped)
	assert.Empty(t, res.Failed)
	assert.Contains(t, res.Rendered, "total_cases")
}

func TestReporter_ChartFailuresAreIsolated(t *testing.T) {
	var out bytes.Buffer
	sink := failingSink{
		MemorySink: NewMemorySink(),
		fail:       map[string]bool{"total_deaths": true},
		crash:      map[string]bool{ChartCorrelation: true},
	}

	res := NewReporter(&out, sink, config.GetConfig().Analysis, utils.NewNopLogger()).
		Report(transformed(t, reportCSV))
	text := out.String()

	assert.Contains(t, text, "Error creating Total COVID-19 Deaths Over Time: disk full")
	assert.Contains(t, text, "Error creating Correlation Between COVID-19 Metrics:")
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "total_deaths", res.Failed[0].Name)
	assert.Equal(t, ChartCorrelation, res.Failed[1].Name)

	assert.Len(t, res.Rendered, len(LineCharts)+5-2)
	assert.Contains(t, res.Rendered, ChartVaccinationMap)
	assert.Contains(t, text, "Global COVID-19 Statistics")
}

func TestReporter_LoadAndProfile(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(&out, nil, config.GetConfig().Analysis, utils.NewNopLogger())

	reporter.ReportLoad(&models.Dataset{Source: models.SourceFallback, Origin: "owid-covid-data.csv"})
	reporter.ReportProfile(&models.DatasetProfile{
		Rows: 3, Columns: 12, MinDate: "2020-12-30", MaxDate: "2021-01-03", Locations: 2,
		Header: []string{"iso_code", "location"},
		Summary: []models.ColumnSummary{
			{Column: models.ColTotalCases, Count: 3, Mean: models.Value(1234.5)},
		},
		Missing: []models.MissingStat{{Column: models.ColTotalCases, Missing: 1, Percent: 33.33}},
	})
	text := out.String()

	assert.Contains(t, text, reportTitle)
	assert.Contains(t, text, "✅ Data loaded from local file!")
	assert.Contains(t, text, "Dataset shape: (3, 12)")
	assert.Contains(t, text, "Time period: 2020-12-30 to 2021-01-03")
	assert.Contains(t, text, "Number of locations: 2")
	assert.Contains(t, text, "iso_code, location")
	assert.Contains(t, text, "1,234.5")
	assert.Contains(t, text, "33.33%")
	assert.Contains(t, text, missingValue)
}

func TestReporter_ReportForecast(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(&out, nil, config.GetConfig().Analysis, utils.NewNopLogger())

	reporter.ReportForecast(nil)
	assert.Empty(t, out.String())

	reporter.ReportForecast(&linear_regression.TrendForecast{
		Location: models.WorldLocation,
		Metric:   models.ColNewCasesSmoothed,
		Result: linear_regression.RegressionResult{
			Slope: -12.5, R2: 0.2,
			PeriodStart: day("2021-01-01"), PeriodEnd: day("2021-01-30"),
		},
		Forecasts: []linear_regression.ForecastPoint{
			{Date: day("2021-01-31"), Value: 1500, CILower: 1200, CIUpper: 1800},
		},
	})
	text := out.String()

	assert.Contains(t, text, "- Period: 2021-01-01 to 2021-01-30")
	assert.Contains(t, text, "- Slope: -12.500 cases/day, R²: 0.200")
	assert.Contains(t, text, "- Forecast for 2021-01-31: 1,500 (interval 1,200 to 1,800)")
	assert.Contains(t, text, "Low model quality")
}

package report

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/linear_regression"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/transform"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// Имена графиков, под которыми они попадают в хранилище
const (
	ChartTopCases         = "top_cases"
	ChartVaccinationRates = "vaccination_rates"
	ChartCorrelation      = "correlation_heatmap"
	ChartCasesMap         = "cases_map"
	ChartVaccinationMap   = "vaccination_map"
)

const (
	reportTitle            = "COVID-19 Global Data Tracker"
	reportDescription      = "This report analyzes global COVID-19 trends including cases, deaths, and vaccinations."
	sectionLoading         = "1. Data Collection & Loading"
	sectionExploration     = "2. Data Exploration"
	sectionCleaning        = "3. Data Cleaning"
	sectionEDA             = "4. Exploratory Data Analysis"
	sectionVaccination     = "5. Vaccination Progress Analysis"
	sectionMaps            = "6. Choropleth Map Visualization"
	sectionInsights        = "7. Key Insights & Findings"
	vaccinationDataMissing = "- Vaccination data not available for the latest date"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ChartFailure график, который не удалось построить или сохранить
type ChartFailure struct {
	Name string
	Err  error
}

// Result итог формирования отчета
type Result struct {
	Summary  GlobalSummary
	Rendered []string
	Skipped  []string
	Failed   []ChartFailure
}

// Reporter печатает текстовый отчет и передает графики в хранилище
type Reporter struct {
	out          io.Writer
	sink         ChartSink
	logger       *utils.ETLLogger
	countries    []string
	topN         int
	growthWindow int
}

// NewReporter создает генератор отчета; при sink == nil графики хранятся в памяти
func NewReporter(out io.Writer, sink ChartSink, cfg config.AnalysisConfig, logger *utils.ETLLogger) *Reporter {
	if sink == nil {
		sink = NewMemorySink()
	}
	return &Reporter{
		out:          out,
		sink:         sink,
		logger:       logger,
		countries:    cfg.Countries,
		topN:         cfg.TopN,
		growthWindow: cfg.GrowthWindow,
	}
}

// ReportLoad заголовок отчета и результат загрузки
func (r *Reporter) ReportLoad(ds *models.Dataset) {
	r.printf("%s\n%s\n%s\n", titleStyle.Render(reportTitle), strings.Repeat("=", len(reportTitle)), reportDescription)
	r.section(sectionLoading)

	r.printf("Data source: %s\n", ds.Origin)
	if ds.Source == models.SourceFallback {
		r.printf("✅ Data loaded from local file!\n")
		return
	}
	r.printf("✅ Data loaded successfully!\n")
}

// ReportProfile диагностика сырого набора
func (r *Reporter) ReportProfile(p *models.DatasetProfile) {
	r.section(sectionExploration)

	r.printf("Dataset shape: (%d, %d)\n", p.Rows, p.Columns)
	r.printf("Time period: %s to %s\n", p.MinDate, p.MaxDate)
	r.printf("Number of locations: %d\n", p.Locations)

	r.printf("\nColumns in the dataset:\n%s\n", strings.Join(p.Header, ", "))

	r.printf("\nSummary statistics for key metrics:\n")
	headers := []string{""}
	for _, s := range p.Summary {
		headers = append(headers, s.Column)
	}
	stats := []struct {
		label string
		value func(models.ColumnSummary) string
	}{
		{"count", func(s models.ColumnSummary) string { return fmt.Sprintf("%d", s.Count) }},
		{"mean", func(s models.ColumnSummary) string { return formatDecimal(s.Mean) }},
		{"std", func(s models.ColumnSummary) string { return formatDecimal(s.Std) }},
		{"min", func(s models.ColumnSummary) string { return formatDecimal(s.Min) }},
		{"25%", func(s models.ColumnSummary) string { return formatDecimal(s.P25) }},
		{"50%", func(s models.ColumnSummary) string { return formatDecimal(s.P50) }},
		{"75%", func(s models.ColumnSummary) string { return formatDecimal(s.P75) }},
		{"max", func(s models.ColumnSummary) string { return formatDecimal(s.Max) }},
	}
	rows := make([][]string, 0, len(stats))
	for _, stat := range stats {
		row := []string{stat.label}
		for _, s := range p.Summary {
			row = append(row, stat.value(s))
		}
		rows = append(rows, row)
	}
	r.printf("%s\n", renderTable(headers, rows))

	r.printf("\nMissing values in key columns:\n")
	rows = rows[:0]
	for _, m := range p.Missing {
		rows = append(rows, []string{m.Column, fmt.Sprintf("%d", m.Missing), formatPercent(m.Percent)})
	}
	r.printf("%s\n", renderTable([]string{"Column", "Missing Values", "Percentage"}, rows))
}

// Report разделы очистки, анализа, вакцинации, карт и итогов.
// Ошибка одного графика печатается строкой текста и не мешает остальным
func (r *Reporter) Report(data *models.TransformedData) *Result {
	startTime := time.Now()
	res := &Result{}

	// 1. Очистка и рейтинг по числу случаев
	r.section(sectionCleaning)
	r.printf("✅ Converted date column to datetime format\n")
	r.printf("Selected countries for detailed analysis: %s\n", strings.Join(r.countries, ", "))
	r.printf("Filtered dataset shape: (%d, %d)\n", len(data.Filtered), len(models.RequiredColumns))

	top := transform.TopN(data.Latest, r.topN)
	r.printf("\nTop %d countries by total cases (as of latest date):\n", r.topN)
	rows := make([][]string, 0, len(top))
	for _, rec := range top {
		rows = append(rows, []string{rec.Location, formatCount(rec.TotalCases)})
	}
	r.printf("%s\n", renderTable([]string{"Location", "Total Cases"}, rows))
	r.printf("\n✅ Calculated case fatality rate\n")
	r.printf("✅ Calculated vaccination rate\n")

	// 2. Временные ряды заболеваемости
	r.section(sectionEDA)
	for _, spec := range LineCharts[:4] {
		r.lineChart(res, spec, data)
	}
	bars := make([]Bar, 0, len(top))
	for _, rec := range top {
		bars = append(bars, Bar{Label: rec.Location, Value: rec.TotalCases})
	}
	topTitle := fmt.Sprintf("Top %d Countries by Total COVID-19 Cases", r.topN)
	r.render(res, ChartTopCases, topTitle, func() (Renderer, error) {
		return BuildBarChart(topTitle, "Total Cases", "Country", bars)
	})

	// 3. Вакцинация и корреляции
	r.section(sectionVaccination)
	for _, spec := range LineCharts[4:] {
		r.lineChart(res, spec, data)
	}
	vaccination := make([]Bar, 0, len(data.LatestFiltered))
	for _, rec := range data.LatestFiltered {
		vaccination = append(vaccination, Bar{Label: rec.Location, Value: rec.VaccinationRate})
	}
	r.render(res, ChartVaccinationRates, "COVID-19 Vaccination Rates by Country", func() (Renderer, error) {
		return BuildBarChart("COVID-19 Vaccination Rates by Country", "Vaccination Rate (% of Population)", "Country", vaccination)
	})

	r.printf("\nCorrelation between key metrics:\n")
	r.printf("%s\n", correlationTable(data.Correlation))
	r.render(res, ChartCorrelation, "Correlation Between COVID-19 Metrics", func() (Renderer, error) {
		return BuildHeatMap("Correlation Between COVID-19 Metrics", data.Correlation)
	})

	// 4. Карты на последнюю дату
	r.section(sectionMaps)
	asOf := data.MapDate.Format(time.DateOnly)
	r.render(res, ChartCasesMap, "choropleth map", func() (Renderer, error) {
		return BuildChoropleth(fmt.Sprintf("Global COVID-19 Cases (as of %s)", asOf), "Total Cases", data.MapRows,
			func(m models.MapRow) sql.NullFloat64 { return m.TotalCases })
	})
	r.render(res, ChartVaccinationMap, "vaccination choropleth map", func() (Renderer, error) {
		return BuildChoropleth(fmt.Sprintf("Global COVID-19 Vaccination Rates (as of %s)", asOf), "Vaccination Rate (%)", data.MapRows,
			func(m models.MapRow) sql.NullFloat64 { return m.VaccinationRate })
	})

	// 5. Итоги
	r.section(sectionInsights)
	res.Summary = BuildSummary(data, r.growthWindow)
	r.printSummary(res.Summary)

	r.logger.Info("Отчет сформирован: графиков %d, пропущено %d, ошибок %d",
		len(res.Rendered), len(res.Skipped), len(res.Failed))
	r.logger.LogPhaseComplete("Report", time.Since(startTime))
	return res
}

// ReportForecast модель тренда и первая точка прогноза
func (r *Reporter) ReportForecast(f *linear_regression.TrendForecast) {
	if f == nil {
		return
	}

	r.printf("\nCase trend forecast (%s, %s):\n", f.Location, f.Metric)
	r.printf("- Period: %s to %s\n", f.Result.PeriodStart.Format(time.DateOnly), f.Result.PeriodEnd.Format(time.DateOnly))
	r.printf("- Slope: %.3f cases/day, R²: %.3f\n", f.Result.Slope, f.Result.R2)
	if len(f.Forecasts) > 0 {
		next := f.Forecasts[0]
		r.printf("- Forecast for %s: %s (interval %s to %s)\n", next.Date.Format(time.DateOnly),
			formatDecimal(models.Value(next.Value)), formatDecimal(models.Value(next.CILower)), formatDecimal(models.Value(next.CIUpper)))
	}
	if !f.Reliable {
		r.printf("- Low model quality, treat the forecast with caution\n")
	}
}

// ReportFooter завершающая строка отчета
func (r *Reporter) ReportFooter() {
	r.printf("\nReport completed successfully!\n")
}

func (r *Reporter) lineChart(res *Result, spec LineSpec, data *models.TransformedData) {
	r.render(res, spec.Name, spec.Title, func() (Renderer, error) {
		return BuildLineChart(spec, data.Filtered, r.countries)
	})
}

// render строит и сохраняет один график. Паника внутри библиотеки графиков
// превращается в ошибку этого графика
func (r *Reporter) render(res *Result, name, label string, build func() (Renderer, error)) {
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("паника при построении графика: %v", p)
			}
		}()

		chart, err := build()
		if err != nil {
			return err
		}
		return r.sink.Save(name, chart)
	}()

	switch {
	case err == nil:
		res.Rendered = append(res.Rendered, name)
	case errors.Is(err, ErrNoData):
		r.logger.Debug("График %s пропущен: нет данных", name)
		r.printf("Skipping %s: no data available\n", label)
		res.Skipped = append(res.Skipped, name)
	default:
		r.logger.Error("Ошибка построения графика %s: %v", name, err)
		r.printf("Error creating %s: %v\n", label, err)
		res.Failed = append(res.Failed, ChartFailure{Name: name, Err: err})
	}
}

func (r *Reporter) printSummary(s GlobalSummary) {
	if !s.HasWorld {
		r.printf("Global COVID-19 Statistics: World data not available\n")
	} else {
		r.printf("Global COVID-19 Statistics (as of %s):\n", s.AsOf.Format(time.DateOnly))
		r.printf("- Total Cases: %s\n", formatCount(s.TotalCases))
		r.printf("- Total Deaths: %s\n", formatCount(s.TotalDeaths))
		r.printf("- Global Case Fatality Rate: %s\n", percentOrMissing(s.CaseFatalityRate))
		if s.PeopleFullyVaccinated.Valid {
			r.printf("- People Fully Vaccinated: %s\n", formatCount(s.PeopleFullyVaccinated))
			r.printf("- Global Vaccination Rate: %s\n", percentOrMissing(s.VaccinationRate))
		} else {
			r.printf("%s\n", vaccinationDataMissing)
		}
	}

	if s.HighestCFR != nil {
		r.printf("\nCountry with highest case fatality rate: %s (%s)\n", s.HighestCFR.Location, formatPercent(s.HighestCFR.Value))
	}
	if s.HighestVaccination != nil {
		r.printf("Country with highest vaccination rate: %s (%s)\n", s.HighestVaccination.Location, formatPercent(s.HighestVaccination.Value))
	}
	r.printf("Average global case growth rate (last %d days): %s\n", s.GrowthWindow, percentOrMissing(s.GrowthRate))
}

func (r *Reporter) section(title string) {
	r.printf("\n%s\n%s\n", titleStyle.Render(title), strings.Repeat("-", len(title)))
}

func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func percentOrMissing(v sql.NullFloat64) string {
	if !v.Valid {
		return missingValue
	}
	return formatPercent(v.Float64)
}

func correlationTable(m models.CorrelationMatrix) string {
	headers := append([]string{""}, m.Columns...)
	rows := make([][]string, 0, len(m.Columns))
	for i, column := range m.Columns {
		row := []string{column}
		for j := range m.Columns {
			row = append(row, formatRatio(m.Values[i][j]))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return cellStyle.Align(lipgloss.Right)
			}
		}).
		String()
}

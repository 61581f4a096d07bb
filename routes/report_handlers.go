// routes/report_handlers.go
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/covid_tracker/ETL/linear_regression"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/report"
	"github.com/LilVoxy/covid_tracker/ETL/transform"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// Handlers обработчики API отчета. runLog и predictions могут быть nil,
// если база данных отключена
type Handlers struct {
	store       *ReportStore
	runLog      models.RunLogRepository
	predictions linear_regression.PredictionRepository
	logger      *utils.ETLLogger
	topN        int
}

// NewHandlers создает обработчики API
func NewHandlers(store *ReportStore, runLog models.RunLogRepository, predictions linear_regression.PredictionRepository,
	topN int, logger *utils.ETLLogger) *Handlers {
	return &Handlers{
		store:       store,
		runLog:      runLog,
		predictions: predictions,
		logger:      logger,
		topN:        topN,
	}
}

// ProfileInfo диагностика набора данных
type ProfileInfo struct {
	Rows      int           `json:"rows"`
	Columns   int           `json:"columns"`
	MinDate   string        `json:"minDate"`
	MaxDate   string        `json:"maxDate"`
	Locations int           `json:"locations"`
	Missing   []MissingInfo `json:"missing"`
}

// MissingInfo пропуски в колонке
type MissingInfo struct {
	Column  string  `json:"column"`
	Missing int     `json:"missing"`
	Percent float64 `json:"percent"`
}

// SummaryInfo итоговые показатели; отсутствующие значения передаются как null
type SummaryInfo struct {
	AsOf                  *string             `json:"asOf"`
	TotalCases            *float64            `json:"totalCases"`
	TotalDeaths           *float64            `json:"totalDeaths"`
	CaseFatalityRate      *float64            `json:"caseFatalityRate"`
	PeopleFullyVaccinated *float64            `json:"peopleFullyVaccinated"`
	VaccinationRate       *float64            `json:"vaccinationRate"`
	HighestCFR            *report.RankedValue `json:"highestCaseFatalityRate"`
	HighestVaccination    *report.RankedValue `json:"highestVaccinationRate"`
	GrowthRate            *float64            `json:"growthRate"`
	GrowthWindow          int                 `json:"growthWindow"`
}

// RankingEntry строка рейтинга
type RankingEntry struct {
	Location string   `json:"location"`
	Value    *float64 `json:"value"`
}

// ChartError график, который не удалось построить
type ChartError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ChartsInfo итог построения графиков
type ChartsInfo struct {
	Rendered []string     `json:"rendered"`
	Skipped  []string     `json:"skipped"`
	Failed   []ChartError `json:"failed"`
}

// ReportResponse ответ API отчета
type ReportResponse struct {
	RunID            string         `json:"runId"`
	Source           string         `json:"source"`
	Origin           string         `json:"origin"`
	StartedAt        time.Time      `json:"startedAt"`
	FinishedAt       time.Time      `json:"finishedAt"`
	Profile          ProfileInfo    `json:"profile"`
	Summary          SummaryInfo    `json:"summary"`
	TopCases         []RankingEntry `json:"topCases"`
	VaccinationRates []RankingEntry `json:"vaccinationRates"`
	Charts           ChartsInfo     `json:"charts"`
}

// ChartsResponse ответ API списка графиков
type ChartsResponse struct {
	Charts []string `json:"charts"`
}

// GetReport отдает итоги последнего запуска
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	latest := h.store.Latest()
	if latest == nil {
		http.Error(w, "Отчет еще не сформирован", http.StatusServiceUnavailable)
		return
	}

	response := ReportResponse{
		RunID:      latest.RunID,
		Source:     string(latest.Source),
		Origin:     latest.Origin,
		StartedAt:  latest.StartedAt,
		FinishedAt: latest.FinishedAt,
		Profile:    profileInfo(latest.Profile),
		Summary:    summaryInfo(latest.Report.Summary),
		Charts:     chartsInfo(latest.Report),
	}
	for _, rec := range transform.TopN(latest.Data.Latest, h.topN) {
		response.TopCases = append(response.TopCases, RankingEntry{Location: rec.Location, Value: models.Ptr(rec.TotalCases)})
	}
	for _, rec := range latest.Data.LatestFiltered {
		response.VaccinationRates = append(response.VaccinationRates,
			RankingEntry{Location: rec.Location, Value: models.Ptr(rec.VaccinationRate)})
	}

	h.writeJSON(w, response)
}

// ListCharts отдает имена графиков последнего запуска
func (h *Handlers) ListCharts(w http.ResponseWriter, r *http.Request) {
	latest := h.store.Latest()
	if latest == nil {
		http.Error(w, "Отчет еще не сформирован", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, ChartsResponse{Charts: latest.Charts.Names()})
}

// GetChart отдает HTML графика
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	latest := h.store.Latest()
	if latest == nil {
		http.Error(w, "Отчет еще не сформирован", http.StatusServiceUnavailable)
		return
	}

	name := mux.Vars(r)["name"]
	html, ok := latest.Charts.Chart(name)
	if !ok {
		http.Error(w, "График не найден", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(html); err != nil {
		h.logger.Error("Ошибка при отправке графика %s: %v", name, err)
	}
}

// writeJSON кодирует и отправляет ответ
func (h *Handlers) writeJSON(w http.ResponseWriter, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Ошибка при кодировании JSON: %v", err)
	}
}

func profileInfo(p *models.DatasetProfile) ProfileInfo {
	info := ProfileInfo{
		Rows:      p.Rows,
		Columns:   p.Columns,
		MinDate:   p.MinDate,
		MaxDate:   p.MaxDate,
		Locations: p.Locations,
	}
	for _, m := range p.Missing {
		info.Missing = append(info.Missing, MissingInfo{Column: m.Column, Missing: m.Missing, Percent: m.Percent})
	}
	return info
}

func summaryInfo(s report.GlobalSummary) SummaryInfo {
	info := SummaryInfo{
		TotalCases:            models.Ptr(s.TotalCases),
		TotalDeaths:           models.Ptr(s.TotalDeaths),
		CaseFatalityRate:      models.Ptr(s.CaseFatalityRate),
		PeopleFullyVaccinated: models.Ptr(s.PeopleFullyVaccinated),
		VaccinationRate:       models.Ptr(s.VaccinationRate),
		HighestCFR:            s.HighestCFR,
		HighestVaccination:    s.HighestVaccination,
		GrowthRate:            models.Ptr(s.GrowthRate),
		GrowthWindow:          s.GrowthWindow,
	}
	if s.HasWorld {
		asOf := s.AsOf.Format(time.DateOnly)
		info.AsOf = &asOf
	}
	return info
}

func chartsInfo(res *report.Result) ChartsInfo {
	info := ChartsInfo{
		Rendered: res.Rendered,
		Skipped:  res.Skipped,
		Failed:   []ChartError{},
	}
	for _, f := range res.Failed {
		info.Failed = append(info.Failed, ChartError{Name: f.Name, Error: f.Err.Error()})
	}
	return info
}

// routes/run_handlers.go
package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

const defaultRunDays = 7

// RunInfo запись журнала запусков
type RunInfo struct {
	ID                   string     `json:"id"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              *time.Time `json:"endTime"`
	Status               string     `json:"status"`
	Source               string     `json:"source,omitempty"`
	RawRows              int        `json:"rawRows"`
	FilteredRows         int        `json:"filteredRows"`
	Locations            int        `json:"locations"`
	ErrorMessage         string     `json:"errorMessage,omitempty"`
	ExecutionTimeSeconds float64    `json:"executionTimeSeconds"`
}

// RunsResponse ответ API журнала запусков
type RunsResponse struct {
	Days int       `json:"days"`
	Runs []RunInfo `json:"runs"`
}

// GetRuns отдает запуски за последние days дней (по умолчанию 7)
func (h *Handlers) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.runLog == nil {
		http.Error(w, "Журнал запусков недоступен: база данных отключена", http.StatusServiceUnavailable)
		return
	}

	days := defaultRunDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "Параметр days должен быть положительным целым числом", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	stats, err := h.runLog.GetRunStats(days)
	if err != nil {
		h.logger.Error("Ошибка при получении журнала запусков: %v", err)
		http.Error(w, "Ошибка при получении журнала запусков", http.StatusInternalServerError)
		return
	}

	response := RunsResponse{Days: days, Runs: make([]RunInfo, 0, len(stats))}
	for _, run := range stats {
		response.Runs = append(response.Runs, runInfo(run))
	}

	h.writeJSON(w, response)
}

// GetLastRun отдает последний успешный запуск
func (h *Handlers) GetLastRun(w http.ResponseWriter, r *http.Request) {
	if h.runLog == nil {
		http.Error(w, "Журнал запусков недоступен: база данных отключена", http.StatusServiceUnavailable)
		return
	}

	run, err := h.runLog.GetLastSuccessfulRun()
	if err != nil {
		h.logger.Error("Ошибка при получении последнего запуска: %v", err)
		http.Error(w, "Ошибка при получении последнего запуска", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Успешных запусков еще не было", http.StatusNotFound)
		return
	}

	h.writeJSON(w, runInfo(*run))
}

func runInfo(run models.PipelineRunLog) RunInfo {
	info := RunInfo{
		ID:                   run.ID,
		StartTime:            run.StartTime,
		Status:               run.Status,
		Source:               run.Source,
		RawRows:              run.RawRows,
		FilteredRows:         run.FilteredRows,
		Locations:            run.Locations,
		ErrorMessage:         run.ErrorMessage,
		ExecutionTimeSeconds: run.ExecutionTimeSeconds,
	}
	if run.EndTime.Valid {
		end := run.EndTime.Time
		info.EndTime = &end
	}
	return info
}

// GetForecast отдает прогноз последнего запуска, а если его нет, последний сохраненный
func (h *Handlers) GetForecast(w http.ResponseWriter, r *http.Request) {
	if latest := h.store.Latest(); latest != nil && latest.Forecast != nil {
		h.writeJSON(w, latest.Forecast)
		return
	}

	if h.predictions != nil {
		forecast, err := h.predictions.GetLatestForecast()
		if err != nil {
			h.logger.Error("Ошибка при получении прогноза: %v", err)
			http.Error(w, "Ошибка при получении прогноза", http.StatusInternalServerError)
			return
		}
		if forecast != nil {
			h.writeJSON(w, forecast)
			return
		}
	}

	http.Error(w, "Прогноз отсутствует", http.StatusNotFound)
}

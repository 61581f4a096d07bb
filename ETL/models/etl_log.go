package models

import (
	"database/sql"
	"time"
)

// Статусы запуска конвейера
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusFailed     = "failed"
)

// PipelineRunLog запись о запуске конвейера
type PipelineRunLog struct {
	ID                   string       `json:"id"`
	StartTime            time.Time    `json:"start_time"`
	EndTime              sql.NullTime `json:"-"`
	Status               string       `json:"status"`
	Source               string       `json:"source,omitempty"`
	RawRows              int          `json:"raw_rows"`
	FilteredRows         int          `json:"filtered_rows"`
	Locations            int          `json:"locations"`
	ErrorMessage         string       `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64      `json:"execution_time_seconds"`
}

// RunCounters счетчики успешного запуска
type RunCounters struct {
	Source       string
	RawRows      int
	FilteredRows int
	Locations    int
}

// RunLogRepository хранилище журнала запусков
//
//go:generate mockgen -source=etl_log.go -destination=mock_etl_log.go -package=models
type RunLogRepository interface {
	// EnsureTable создает таблицу журнала, если ее нет
	EnsureTable() error

	// CreateLogEntry создает запись со статусом in_progress
	CreateLogEntry(id string, startTime time.Time) error

	// UpdateLogEntrySuccess отмечает успешное завершение
	UpdateLogEntrySuccess(id string, endTime time.Time, counters RunCounters) error

	// UpdateLogEntryFailure отмечает неудачное завершение
	UpdateLogEntryFailure(id string, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun возвращает последний успешный запуск или nil
	GetLastSuccessfulRun() (*PipelineRunLog, error)

	// GetRunStats возвращает запуски за последние days дней
	GetRunStats(days int) ([]PipelineRunLog, error)
}

package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLRunLogRepository реализация RunLogRepository поверх MySQL или SQLite
type SQLRunLogRepository struct {
	db *sql.DB
}

// NewSQLRunLogRepository создает новый экземпляр SQLRunLogRepository
func NewSQLRunLogRepository(db *sql.DB) *SQLRunLogRepository {
	return &SQLRunLogRepository{
		db: db,
	}
}

const runLogColumns = `id, start_time, end_time, status, source,
		raw_rows, filtered_rows, locations, error_message, execution_time_seconds`

// EnsureTable создает таблицу pipeline_run_log, если она не существует
func (r *SQLRunLogRepository) EnsureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS pipeline_run_log (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'in_progress',
		source VARCHAR(16) NOT NULL DEFAULT '',
		raw_rows INT NOT NULL DEFAULT 0,
		filtered_rows INT NOT NULL DEFAULT 0,
		locations INT NOT NULL DEFAULT 0,
		error_message TEXT,
		execution_time_seconds DOUBLE NOT NULL DEFAULT 0
	)`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("ошибка при создании таблицы pipeline_run_log: %w", err)
	}
	return nil
}

// CreateLogEntry создает новую запись о запуске
func (r *SQLRunLogRepository) CreateLogEntry(id string, startTime time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO pipeline_run_log (id, start_time, status) VALUES (?, ?, ?)`,
		id, startTime.UTC(), RunStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("ошибка при создании записи о запуске: %w", err)
	}
	return nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении
func (r *SQLRunLogRepository) UpdateLogEntrySuccess(id string, endTime time.Time, counters RunCounters) error {
	executionTime, err := r.executionTime(id, endTime)
	if err != nil {
		return err
	}

	query := `
	UPDATE pipeline_run_log
	SET
		end_time = ?,
		status = ?,
		source = ?,
		raw_rows = ?,
		filtered_rows = ?,
		locations = ?,
		execution_time_seconds = ?
	WHERE id = ?`

	_, err = r.db.Exec(query,
		endTime.UTC(), RunStatusSuccess, counters.Source,
		counters.RawRows, counters.FilteredRows, counters.Locations,
		executionTime, id,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске: %w", err)
	}
	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении
func (r *SQLRunLogRepository) UpdateLogEntryFailure(id string, endTime time.Time, errorMessage string) error {
	executionTime, err := r.executionTime(id, endTime)
	if err != nil {
		return err
	}

	query := `
	UPDATE pipeline_run_log
	SET
		end_time = ?,
		status = ?,
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?`

	if _, err := r.db.Exec(query, endTime.UTC(), RunStatusFailed, errorMessage, executionTime, id); err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске: %w", err)
	}
	return nil
}

// executionTime считает длительность запуска по сохраненному времени начала
func (r *SQLRunLogRepository) executionTime(id string, endTime time.Time) (float64, error) {
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM pipeline_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении времени начала запуска %s: %w", id, err)
	}
	return endTime.Sub(startTime).Seconds(), nil
}

// GetLastSuccessfulRun получает последний успешный запуск
func (r *SQLRunLogRepository) GetLastSuccessfulRun() (*PipelineRunLog, error) {
	query := `SELECT ` + runLogColumns + `
	FROM pipeline_run_log
	WHERE status = ?
	ORDER BY end_time DESC
	LIMIT 1`

	log, err := scanRunLog(r.db.QueryRow(query, RunStatusSuccess))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Успешных запусков еще не было
		}
		return nil, fmt.Errorf("ошибка при получении последнего успешного запуска: %w", err)
	}
	return log, nil
}

// GetRunStats получает запуски за последние days дней, новые первыми
func (r *SQLRunLogRepository) GetRunStats(days int) ([]PipelineRunLog, error) {
	query := `SELECT ` + runLogColumns + `
	FROM pipeline_run_log
	WHERE start_time >= ?
	ORDER BY start_time DESC`

	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики запусков: %w", err)
	}
	defer rows.Close()

	var logs []PipelineRunLog
	for rows.Next() {
		log, err := scanRunLog(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании записи о запуске: %w", err)
		}
		logs = append(logs, *log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по записям о запусках: %w", err)
	}
	return logs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunLog(row rowScanner) (*PipelineRunLog, error) {
	var (
		log     PipelineRunLog
		errText sql.NullString
	)
	err := row.Scan(
		&log.ID, &log.StartTime, &log.EndTime, &log.Status, &log.Source,
		&log.RawRows, &log.FilteredRows, &log.Locations, &errText, &log.ExecutionTimeSeconds,
	)
	if err != nil {
		return nil, err
	}
	log.ErrorMessage = errText.String
	return &log, nil
}

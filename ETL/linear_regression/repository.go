package linear_regression

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLPredictionRepository реализация PredictionRepository для MySQL и SQLite
type SQLPredictionRepository struct {
	db *sql.DB
}

// NewSQLPredictionRepository создает новый репозиторий для работы с прогнозами
func NewSQLPredictionRepository(db *sql.DB) *SQLPredictionRepository {
	return &SQLPredictionRepository{
		db: db,
	}
}

// EnsureTable проверяет наличие таблицы и создает ее при необходимости
func (r *SQLPredictionRepository) EnsureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS case_trend_predictions (
		run_id VARCHAR(36) NOT NULL,
		metric VARCHAR(64) NOT NULL,
		location VARCHAR(128) NOT NULL,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		slope DOUBLE NOT NULL,
		intercept DOUBLE NOT NULL,
		r DOUBLE NOT NULL,
		r2 DOUBLE NOT NULL,
		reliable BOOLEAN NOT NULL,
		forecast_date DATE NOT NULL,
		forecast_value DOUBLE NOT NULL,
		ci_lower DOUBLE NOT NULL,
		ci_upper DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, forecast_date)
	)`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("ошибка при создании таблицы case_trend_predictions: %w", err)
	}
	return nil
}

// SaveForecast сохраняет все точки прогноза в транзакции
func (r *SQLPredictionRepository) SaveForecast(forecast TrendForecast) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO case_trend_predictions
		(run_id, metric, location, period_start, period_end, slope, intercept, r, r2, reliable,
		 forecast_date, forecast_value, ci_lower, ci_upper, created_at)
	VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("не удалось подготовить запрос: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC()
	res := forecast.Result
	for _, point := range forecast.Forecasts {
		_, err := stmt.Exec(
			forecast.RunID, forecast.Metric, forecast.Location,
			res.PeriodStart, res.PeriodEnd, res.Slope, res.Intercept, res.R, res.R2, forecast.Reliable,
			point.Date, point.Value, point.CILower, point.CIUpper, createdAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("не удалось сохранить прогноз на %s: %w", point.Date.Format(time.DateOnly), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}
	return nil
}

// GetForecasts получает точки прогнозов для указанного периода
func (r *SQLPredictionRepository) GetForecasts(startDate, endDate time.Time) ([]ForecastPoint, error) {
	query := `
	SELECT forecast_date, forecast_value, ci_lower, ci_upper
	FROM case_trend_predictions
	WHERE forecast_date BETWEEN ? AND ?
	ORDER BY forecast_date, created_at`

	rows, err := r.db.Query(query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var forecasts []ForecastPoint
	for rows.Next() {
		var f ForecastPoint
		if err := rows.Scan(&f.Date, &f.Value, &f.CILower, &f.CIUpper); err != nil {
			return nil, fmt.Errorf("ошибка при чтении данных: %w", err)
		}
		forecasts = append(forecasts, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по результатам: %w", err)
	}
	return forecasts, nil
}

// GetLatestForecast получает модель и точки прогноза последнего сохраненного запуска
func (r *SQLPredictionRepository) GetLatestForecast() (*TrendForecast, error) {
	query := `
	SELECT run_id, metric, location, period_start, period_end, slope, intercept, r, r2, reliable,
		forecast_date, forecast_value, ci_lower, ci_upper
	FROM case_trend_predictions
	WHERE run_id = (SELECT run_id FROM case_trend_predictions ORDER BY created_at DESC, run_id DESC LIMIT 1)
	ORDER BY forecast_date`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении последнего прогноза: %w", err)
	}
	defer rows.Close()

	var forecast *TrendForecast
	for rows.Next() {
		var (
			f     TrendForecast
			point ForecastPoint
		)
		err := rows.Scan(
			&f.RunID, &f.Metric, &f.Location,
			&f.Result.PeriodStart, &f.Result.PeriodEnd,
			&f.Result.Slope, &f.Result.Intercept, &f.Result.R, &f.Result.R2, &f.Reliable,
			&point.Date, &point.Value, &point.CILower, &point.CIUpper,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при чтении прогноза: %w", err)
		}
		if forecast == nil {
			forecast = &f
		}
		forecast.Forecasts = append(forecast.Forecasts, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по результатам: %w", err)
	}
	// nil, nil - прогнозов еще нет
	return forecast, nil
}

// DeleteOldPredictions удаляет устаревшие прогнозы
func (r *SQLPredictionRepository) DeleteOldPredictions(olderThan time.Time) error {
	if _, err := r.db.Exec(`DELETE FROM case_trend_predictions WHERE created_at < ?`, olderThan.UTC()); err != nil {
		return fmt.Errorf("ошибка при удалении устаревших прогнозов: %w", err)
	}
	return nil
}

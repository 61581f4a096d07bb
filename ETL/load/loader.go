package load

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// Loader интерфейс для загрузки данных в OLAP
type Loader interface {
	// EnsureSchema создает таблицы витрины, если их нет
	EnsureSchema() error

	// LoadLocationSnapshots заменяет последние снимки всех локаций
	LoadLocationSnapshots(snapshots []models.Record) error

	// LoadCountryMetrics заменяет обогащенные ряды стран из списка
	LoadCountryMetrics(rows []models.EnrichedRecord) error
}

// OLAPLoader реализация Loader для OLAP базы данных (MySQL или SQLite)
type OLAPLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	// Загрузчики для отдельных таблиц
	snapshotLoader *SnapshotLoader
	metricsLoader  *MetricsLoader
}

// NewOLAPLoader создает новый экземпляр OLAPLoader
func NewOLAPLoader(db *sql.DB, logger *utils.ETLLogger) *OLAPLoader {
	return &OLAPLoader{
		db:             db,
		logger:         logger,
		snapshotLoader: NewSnapshotLoader(db, logger),
		metricsLoader:  NewMetricsLoader(db, logger),
	}
}

// EnsureSchema создает таблицы location_snapshots и country_metrics
func (l *OLAPLoader) EnsureSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS location_snapshots (
			location VARCHAR(128) NOT NULL,
			iso_code VARCHAR(16) NOT NULL,
			snapshot_date DATE NOT NULL,
			population DOUBLE NULL,
			total_cases DOUBLE NULL,
			new_cases DOUBLE NULL,
			total_deaths DOUBLE NULL,
			new_deaths DOUBLE NULL,
			total_vaccinations DOUBLE NULL,
			people_vaccinated DOUBLE NULL,
			people_fully_vaccinated DOUBLE NULL,
			loaded_at TIMESTAMP NOT NULL,
			PRIMARY KEY (location)
		)`,
		`CREATE TABLE IF NOT EXISTS country_metrics (
			location VARCHAR(128) NOT NULL,
			metric_date DATE NOT NULL,
			population DOUBLE NULL,
			total_cases DOUBLE NULL,
			new_cases DOUBLE NULL,
			new_cases_smoothed DOUBLE NULL,
			total_deaths DOUBLE NULL,
			new_deaths DOUBLE NULL,
			people_vaccinated DOUBLE NULL,
			people_fully_vaccinated DOUBLE NULL,
			case_fatality_rate DOUBLE NULL,
			vaccination_rate DOUBLE NULL,
			loaded_at TIMESTAMP NOT NULL,
			PRIMARY KEY (location, metric_date)
		)`,
	}

	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return fmt.Errorf("ошибка при создании таблиц витрины: %w", err)
		}
	}
	return nil
}

// LoadLocationSnapshots заменяет последние снимки всех локаций
func (l *OLAPLoader) LoadLocationSnapshots(snapshots []models.Record) error {
	return l.snapshotLoader.Load(snapshots)
}

// LoadCountryMetrics заменяет обогащенные ряды стран из списка
func (l *OLAPLoader) LoadCountryMetrics(rows []models.EnrichedRecord) error {
	return l.metricsLoader.Load(rows)
}

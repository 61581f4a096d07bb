package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// MetricsLoader отвечает за загрузку обогащенных рядов стран
type MetricsLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewMetricsLoader создает новый экземпляр MetricsLoader
func NewMetricsLoader(db *sql.DB, logger *utils.ETLLogger) *MetricsLoader {
	return &MetricsLoader{
		db:     db,
		logger: logger,
	}
}

// Load заменяет содержимое country_metrics в одной транзакции
func (l *MetricsLoader) Load(rows []models.EnrichedRecord) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки показателей стран (всего: %d)", len(rows))

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM country_metrics`); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке country_metrics: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO country_metrics (
			location, metric_date, population, total_cases, new_cases, new_cases_smoothed,
			total_deaths, new_deaths, people_vaccinated, people_fully_vaccinated,
			case_fatality_rate, vaccination_rate, loaded_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	loadedAt := time.Now().UTC()
	for _, r := range rows {
		_, err := stmt.Exec(
			r.Location,
			r.Date,
			r.Population,
			r.TotalCases,
			r.NewCases,
			r.NewCasesSmoothed,
			r.TotalDeaths,
			r.NewDeaths,
			r.PeopleVaccinated,
			r.PeopleFullyVaccinated,
			r.CaseFatalityRate,
			r.VaccinationRate,
			loadedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при загрузке показателей %s за %s: %w",
				r.Location, r.Date.Format(time.DateOnly), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	l.logger.Info("Загрузка показателей стран завершена. Загружено записей: %d. Длительность: %v",
		len(rows), time.Since(startTime))
	return nil
}

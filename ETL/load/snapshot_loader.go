package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// SnapshotLoader отвечает за загрузку последних снимков локаций
type SnapshotLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewSnapshotLoader создает новый экземпляр SnapshotLoader
func NewSnapshotLoader(db *sql.DB, logger *utils.ETLLogger) *SnapshotLoader {
	return &SnapshotLoader{
		db:     db,
		logger: logger,
	}
}

// Load заменяет содержимое location_snapshots в одной транзакции.
// При любой ошибке прежнее содержимое таблицы сохраняется
func (l *SnapshotLoader) Load(snapshots []models.Record) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки снимков локаций (всего: %d)", len(snapshots))

	// Начинаем транзакцию
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM location_snapshots`); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при очистке location_snapshots: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO location_snapshots (
			location, iso_code, snapshot_date, population, total_cases, new_cases,
			total_deaths, new_deaths, total_vaccinations, people_vaccinated,
			people_fully_vaccinated, loaded_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	loadedAt := time.Now().UTC()
	for _, s := range snapshots {
		_, err := stmt.Exec(
			s.Location,
			s.ISOCode,
			s.Date,
			s.Population,
			s.TotalCases,
			s.NewCases,
			s.TotalDeaths,
			s.NewDeaths,
			s.TotalVaccinations,
			s.PeopleVaccinated,
			s.PeopleFullyVaccinated,
			loadedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при загрузке снимка локации %s: %w", s.Location, err)
		}
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	l.logger.Info("Загрузка снимков локаций завершена. Загружено записей: %d. Длительность: %v",
		len(snapshots), time.Since(startTime))
	return nil
}

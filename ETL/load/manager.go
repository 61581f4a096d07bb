package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// LoadManager отвечает за управление процессом загрузки данных в OLAP
type LoadManager struct {
	logger *utils.ETLLogger
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.ETLLogger) *LoadManager {
	return NewLoadManagerWithLoader(NewOLAPLoader(db, logger), logger)
}

// NewLoadManagerWithLoader создает LoadManager поверх произвольного Loader
func NewLoadManagerWithLoader(loader Loader, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		logger: logger,
		loader: loader,
	}
}

// Load выполняет фазу загрузки данных ETL-процесса
// Принимает обработанные данные из фазы Transform
func (m *LoadManager) Load(data *models.TransformedData) error {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных)")

	// 1. Проверяем схему витрины
	if err := m.loader.EnsureSchema(); err != nil {
		m.logger.Error("Ошибка при проверке схемы витрины: %v", err)
		return fmt.Errorf("ошибка при проверке схемы витрины: %w", err)
	}

	// 2. Загружаем последние снимки локаций
	m.logger.Info("Загрузка снимков локаций...")
	if err := m.loader.LoadLocationSnapshots(data.Latest); err != nil {
		m.logger.Error("Ошибка при загрузке снимков локаций: %v", err)
		return fmt.Errorf("ошибка при загрузке снимков локаций: %w", err)
	}

	// 3. Загружаем ряды стран из списка
	m.logger.Info("Загрузка показателей стран...")
	if err := m.loader.LoadCountryMetrics(data.Filtered); err != nil {
		m.logger.Error("Ошибка при загрузке показателей стран: %v", err)
		return fmt.Errorf("ошибка при загрузке показателей стран: %w", err)
	}

	m.logger.LogPhaseComplete("Load", time.Since(startTime))
	return nil
}

package transform

import (
	"fmt"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// Transformer координирует очистку и обогащение набора данных
type Transformer struct {
	logger            *utils.ETLLogger
	countries         []string
	rollingWindow     int
	rollingMinPeriods int
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(cfg config.AnalysisConfig, logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:            logger,
		countries:         cfg.Countries,
		rollingWindow:     cfg.RollingWindow,
		rollingMinPeriods: cfg.RollingMinPeriods,
	}
}

// Transform выполняет полный процесс очистки и обогащения
func (t *Transformer) Transform(ds *models.Dataset) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (очистка и обогащение данных)")

	// 1. Разбор дат и типизация строк
	records, err := ParseRecords(ds.Frame)
	if err != nil {
		t.logger.Error("Ошибка при разборе строк: %v", err)
		return nil, fmt.Errorf("ошибка при разборе строк: %w", err)
	}

	data := &models.TransformedData{
		Records:   records,
		Countries: t.countries,
	}

	// 2. Фильтрация стран и производные показатели
	t.logger.Debug("Фильтрация %d стран и расчет CFR и доли вакцинированных...", len(t.countries))
	filtered := FilterCountries(records, t.countries)

	// 3. Скользящее среднее новых случаев
	t.logger.Debug("Расчет скользящего среднего (окно %d, минимум %d)...", t.rollingWindow, t.rollingMinPeriods)
	data.Filtered = ApplyRollingMean(filtered, t.rollingWindow, t.rollingMinPeriods)
	data.World = ApplyRollingMean(SeriesFor(records, models.WorldLocation), t.rollingWindow, t.rollingMinPeriods)

	// 4. Последние значения по локациям
	data.Latest = LatestByLocation(records)
	data.LatestFiltered = LatestEnriched(data.Filtered)

	// 5. Корреляционная матрица
	data.Correlation = Correlation(data.Filtered, models.CorrelationMetrics)

	// 6. Данные для карт
	data.MapDate, data.MapRows = MapSnapshot(records)

	// Заполняем метаданные
	data.Metadata = models.TransformMetadata{
		RawRows:      len(records),
		FilteredRows: len(data.Filtered),
		Locations:    len(data.Latest),
		MaxDate:      data.MapDate,
	}
	for i, r := range records {
		if i == 0 || r.Date.Before(data.Metadata.MinDate) {
			data.Metadata.MinDate = r.Date
		}
	}

	t.logger.Info("Фаза Transform завершена. Длительность: %v, строк после фильтрации: %d",
		time.Since(startTime), len(data.Filtered))

	return data, nil
}

package linear_regression

import (
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// retentionDays сколько дней хранятся старые прогнозы
const retentionDays = 90

// Config конфигурация процессора линейной регрессии
type Config struct {
	// Количество дней для анализа
	AnalysisPeriodDays int
	// Количество дней для прогноза
	ForecastDays int
	// Уровень доверия (например 0.95)
	ConfidenceLevel float64
	// Минимальное значение r² для признания модели значимой
	MinR2Threshold float64
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return ConfigFrom(config.DefaultRegressionConfig)
}

// ConfigFrom переводит секцию regression файла конфигурации
func ConfigFrom(cfg config.RegressionConfig) Config {
	return Config{
		AnalysisPeriodDays: cfg.AnalysisPeriodDays,
		ForecastDays:       cfg.ForecastDays,
		ConfidenceLevel:    cfg.ConfidenceLevel,
		MinR2Threshold:     cfg.MinR2Threshold,
	}
}

// ErrNotEnoughData в ряду меньше точек, чем нужно для модели
var ErrNotEnoughData = errors.New("недостаточно данных для прогноза")

// RegressionProcessor процессор линейной регрессии
type RegressionProcessor struct {
	repository PredictionRepository
	logger     *utils.ETLLogger
	config     Config
}

// NewRegressionProcessor создает новый процессор; repository может быть nil, тогда прогноз не сохраняется
func NewRegressionProcessor(repository PredictionRepository, logger *utils.ETLLogger, config Config) *RegressionProcessor {
	return &RegressionProcessor{
		repository: repository,
		logger:     logger,
		config:     config,
	}
}

// Process строит модель по сглаженным новым случаям ряда и прогнозирует тренд
func (p *RegressionProcessor) Process(runID string, series []models.EnrichedRecord) (*TrendForecast, error) {
	startTime := time.Now()
	p.logger.Info("Запуск линейной регрессии для прогноза новых случаев")

	// 1. Точки данных за период анализа
	points := DataPointsFromSeries(series, p.config.AnalysisPeriodDays)
	p.logger.Debug("Получено %d точек данных для анализа", len(points))
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: %d точек", ErrNotEnoughData, len(points))
	}

	// 2. Модель
	result, err := LinearRegression(points)
	if err != nil {
		return nil, fmt.Errorf("ошибка при построении модели линейной регрессии: %w", err)
	}
	p.logger.Info("Результаты модели: наклон=%.3f, сдвиг=%.3f, R=%.3f, R²=%.3f, период %s - %s",
		result.Slope, result.Intercept, result.R, result.R2,
		result.PeriodStart.Format(time.DateOnly), result.PeriodEnd.Format(time.DateOnly))

	forecast := &TrendForecast{
		RunID:    runID,
		Metric:   models.ColNewCasesSmoothed,
		Location: locationOf(series),
		Result:   *result,
		Reliable: result.R2 >= p.config.MinR2Threshold,
	}
	if !forecast.Reliable {
		p.logger.Info("Низкое качество модели (R²=%.3f < %.3f). Однако прогноз будет сделан.",
			result.R2, p.config.MinR2Threshold)
	}

	// 3. Прогноз
	forecast.Forecasts = GenerateForecasts(result, p.config.ForecastDays, p.config.ConfidenceLevel)

	// 4. Сохранение. Ошибка сохранения возвращается вместе с построенным прогнозом
	if p.repository != nil {
		if err := p.repository.EnsureTable(); err != nil {
			return forecast, fmt.Errorf("ошибка при проверке/создании таблицы прогнозов: %w", err)
		}
		if err := p.repository.SaveForecast(*forecast); err != nil {
			return forecast, fmt.Errorf("ошибка при сохранении прогнозов: %w", err)
		}
		if err := p.repository.DeleteOldPredictions(time.Now().AddDate(0, 0, -retentionDays)); err != nil {
			p.logger.Warn("Не удалось удалить устаревшие прогнозы: %v", err)
		}
	}

	p.logger.LogPhaseComplete("Forecast", time.Since(startTime))
	return forecast, nil
}

func locationOf(series []models.EnrichedRecord) string {
	if len(series) == 0 {
		return ""
	}
	return series[0].Location
}

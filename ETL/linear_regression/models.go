package linear_regression

import (
	"time"
)

// DataPoint представляет точку данных для линейной регрессии
type DataPoint struct {
	X    float64   // Порядковый номер дня от начала периода
	Y    float64   // Сглаженное число новых случаев за день
	Date time.Time // Фактическая дата
}

// RegressionResult содержит результаты линейной регрессии
type RegressionResult struct {
	Slope       float64     `json:"slope"`
	Intercept   float64     `json:"intercept"`
	R           float64     `json:"r"`
	R2          float64     `json:"r2"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	DataPoints  []DataPoint `json:"-"`
}

// ForecastPoint представляет точку прогноза
type ForecastPoint struct {
	Date    time.Time `json:"date"`
	Value   float64   `json:"value"`
	CILower float64   `json:"ci_lower"`
	CIUpper float64   `json:"ci_upper"`
}

// TrendForecast модель и прогноз одного запуска
type TrendForecast struct {
	RunID     string           `json:"run_id"`
	Metric    string           `json:"metric"`
	Location  string           `json:"location"`
	Result    RegressionResult `json:"result"`
	Forecasts []ForecastPoint  `json:"forecasts"`
	// Reliable false, если R² ниже порога качества
	Reliable bool `json:"reliable"`
}

// PredictionRepository интерфейс для работы с хранилищем прогнозов
type PredictionRepository interface {
	// EnsureTable создает таблицу прогнозов, если ее нет
	EnsureTable() error

	// SaveForecast сохраняет все точки прогноза в одной транзакции
	SaveForecast(forecast TrendForecast) error

	// GetForecasts получает точки прогнозов для указанного периода
	GetForecasts(startDate, endDate time.Time) ([]ForecastPoint, error)

	// GetLatestForecast получает прогноз последнего запуска
	GetLatestForecast() (*TrendForecast, error)

	// DeleteOldPredictions удаляет прогнозы, созданные раньше olderThan
	DeleteOldPredictions(olderThan time.Time) error
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// ETLConfig содержит конфигурацию конвейера
type ETLConfig struct {
	// Источник набора данных
	Source SourceConfig `yaml:"source"`

	// Параметры анализа
	Analysis AnalysisConfig `yaml:"analysis"`

	// Параметры отчета
	Report ReportConfig `yaml:"report"`

	// Конфигурация для подключения к OLAP БД (целевой)
	OLAPConfig DatabaseConfig `yaml:"olap"`

	// Параметры прогноза тренда
	Regression RegressionConfig `yaml:"regression"`

	// HTTP-сервер отчетов
	Server ServerConfig `yaml:"server"`

	// Интервал запуска конвейера
	RunInterval time.Duration `yaml:"run_interval"`

	// Включение/отключение отладочного логирования
	EnableDetailedLogging bool `yaml:"enable_detailed_logging"`

	// Каталог для ежедневного файла лога; пусто - только консоль
	LogDir string `yaml:"log_dir"`
}

// SourceConfig описывает откуда берется CSV
type SourceConfig struct {
	URL          string        `yaml:"url"`
	FallbackPath string        `yaml:"fallback_path"`
	Timeout      time.Duration `yaml:"timeout"`
	CachePath    string        `yaml:"cache_path"`
}

// AnalysisConfig параметры очистки и обогащения
type AnalysisConfig struct {
	Countries         []string `yaml:"countries"`
	RollingWindow     int      `yaml:"rolling_window"`
	RollingMinPeriods int      `yaml:"rolling_min_periods"`
	GrowthWindow      int      `yaml:"growth_window"`
	TopN              int      `yaml:"top_n"`
}

// ReportConfig параметры вывода отчета
type ReportConfig struct {
	// Пустое значение - графики хранятся только в памяти
	ChartsDir string `yaml:"charts_dir"`
}

// RegressionConfig параметры линейной регрессии
type RegressionConfig struct {
	AnalysisPeriodDays int     `yaml:"analysis_period_days"`
	ForecastDays       int     `yaml:"forecast_days"`
	ConfidenceLevel    float64 `yaml:"confidence_level"`
	MinR2Threshold     float64 `yaml:"min_r2_threshold"`
}

// ServerConfig параметры HTTP-сервера
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	// Path путь к файлу базы для драйвера sqlite
	Path string `yaml:"path"`
}

// Поддерживаемые драйверы
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Значения конфигурации по умолчанию
var (
	DefaultSourceConfig = SourceConfig{
		URL:          "https://covid.ourworldindata.org/data/owid-covid-data.csv",
		FallbackPath: "owid-covid-data.csv",
		Timeout:      60 * time.Second,
	}

	DefaultAnalysisConfig = AnalysisConfig{
		RollingWindow:     7,
		RollingMinPeriods: 1,
		GrowthWindow:      30,
		TopN:              10,
	}

	DefaultOLAPConfig = DatabaseConfig{
		Enabled: false,
		Driver:  DriverMySQL,
		Host:    "localhost",
		Port:    3306,
		User:    "root",
		DBName:  "covid_analytics",
		Path:    "covid_analytics.db",
	}

	DefaultRegressionConfig = RegressionConfig{
		AnalysisPeriodDays: 30,
		ForecastDays:       14,
		ConfidenceLevel:    0.95,
		MinR2Threshold:     0.30,
	}

	DefaultETLConfig = ETLConfig{
		Source:                DefaultSourceConfig,
		Analysis:              DefaultAnalysisConfig,
		OLAPConfig:            DefaultOLAPConfig,
		Regression:            DefaultRegressionConfig,
		Server:                ServerConfig{Address: ":8080"},
		RunInterval:           24 * time.Hour,
		EnableDetailedLogging: false,
	}
)

// GetConfig возвращает конфигурацию по умолчанию
func GetConfig() ETLConfig {
	config := DefaultETLConfig

	// Копируем список стран, чтобы изменения не затрагивали значения по умолчанию
	config.Analysis.Countries = append([]string(nil), models.DefaultCountries...)

	return config
}

// Load читает YAML-файл поверх значений по умолчанию. Пустой путь возвращает значения по умолчанию
func Load(path string) (ETLConfig, error) {
	config := GetConfig()
	if path == "" {
		return config, config.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ETLConfig{}, fmt.Errorf("ошибка чтения файла конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return ETLConfig{}, fmt.Errorf("ошибка разбора файла конфигурации %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return ETLConfig{}, err
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c ETLConfig) Validate() error {
	var errs []error

	if c.Source.URL == "" && c.Source.FallbackPath == "" {
		errs = append(errs, errors.New("source: нужен url или fallback_path"))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("source.timeout должен быть положительным, получено %v", c.Source.Timeout))
	}
	if len(c.Analysis.Countries) == 0 {
		errs = append(errs, errors.New("analysis.countries не может быть пустым"))
	}
	if c.Analysis.RollingWindow <= 0 {
		errs = append(errs, fmt.Errorf("analysis.rolling_window должен быть положительным, получено %d", c.Analysis.RollingWindow))
	}
	if c.Analysis.RollingMinPeriods <= 0 || c.Analysis.RollingMinPeriods > c.Analysis.RollingWindow {
		errs = append(errs, fmt.Errorf("analysis.rolling_min_periods должен быть в диапазоне 1..%d, получено %d",
			c.Analysis.RollingWindow, c.Analysis.RollingMinPeriods))
	}
	if c.Analysis.GrowthWindow <= 0 {
		errs = append(errs, fmt.Errorf("analysis.growth_window должен быть положительным, получено %d", c.Analysis.GrowthWindow))
	}
	if c.Analysis.TopN <= 0 {
		errs = append(errs, fmt.Errorf("analysis.top_n должен быть положительным, получено %d", c.Analysis.TopN))
	}
	if c.OLAPConfig.Enabled && c.OLAPConfig.Driver != DriverMySQL && c.OLAPConfig.Driver != DriverSQLite {
		errs = append(errs, fmt.Errorf("olap.driver: неизвестный драйвер %q", c.OLAPConfig.Driver))
	}
	if c.Regression.AnalysisPeriodDays < 2 {
		errs = append(errs, fmt.Errorf("regression.analysis_period_days должен быть не меньше 2, получено %d", c.Regression.AnalysisPeriodDays))
	}
	if c.Regression.ForecastDays <= 0 {
		errs = append(errs, fmt.Errorf("regression.forecast_days должен быть положительным, получено %d", c.Regression.ForecastDays))
	}
	if c.RunInterval <= 0 {
		errs = append(errs, fmt.Errorf("run_interval должен быть положительным, получено %v", c.RunInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("некорректная конфигурация: %w", errors.Join(errs...))
	}
	return nil
}

package runner

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/extractors"
	"github.com/LilVoxy/covid_tracker/ETL/linear_regression"
	"github.com/LilVoxy/covid_tracker/ETL/load"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/profile"
	"github.com/LilVoxy/covid_tracker/ETL/report"
	"github.com/LilVoxy/covid_tracker/ETL/transform"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// DatasetExtractor источник сырого набора данных
type DatasetExtractor interface {
	Extract(ctx context.Context) (*models.Dataset, error)
}

// RunResult результат одного запуска конвейера
type RunResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Source     models.Source
	Origin     string
	Profile    *models.DatasetProfile
	Data       *models.TransformedData
	Report     *report.Result
	// Charts графики этого запуска
	Charts *report.MemorySink
	// Forecast nil, если прогноз построить не удалось
	Forecast *linear_regression.TrendForecast
}

// ETLRunner выполняет конвейер Load, Profile, Transform, Report
type ETLRunner struct {
	config      config.ETLConfig
	db          *sql.DB
	logger      *utils.ETLLogger
	out         io.Writer
	extractor   DatasetExtractor
	profiler    *profile.Profiler
	transformer *transform.Transformer
	dirSink     *report.DirSink
	loadManager *load.LoadManager
	runLogRepo  models.RunLogRepository
	regression  *linear_regression.RegressionProcessor
}

// NewETLRunner создает новый экземпляр ETLRunner. Текст отчета пишется в out.
// Если OLAP база включена, к ней подключаются журнал запусков, витрина и прогнозы
func NewETLRunner(ctx context.Context, cfg config.ETLConfig, out io.Writer, logger *utils.ETLLogger) (*ETLRunner, error) {
	logger.Info("Инициализация ETL Runner")

	var db *sql.DB
	if cfg.OLAPConfig.Enabled {
		var err error
		db, err = config.ConnectDatabase(ctx, cfg.OLAPConfig)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
		}
	}

	runner, err := newRunner(cfg, db, out, logger)
	if err != nil {
		_ = config.CloseDatabase(db)
		return nil, err
	}
	return runner, nil
}

func newRunner(cfg config.ETLConfig, db *sql.DB, out io.Writer, logger *utils.ETLLogger) (*ETLRunner, error) {
	r := &ETLRunner{
		config:      cfg,
		db:          db,
		logger:      logger,
		out:         out,
		extractor:   extractors.NewExtractor(cfg.Source, logger),
		profiler:    profile.NewProfiler(logger),
		transformer: transform.NewTransformer(cfg.Analysis, logger),
	}

	if cfg.Report.ChartsDir != "" {
		dirSink, err := report.NewDirSink(cfg.Report.ChartsDir)
		if err != nil {
			return nil, err
		}
		r.dirSink = dirSink
	}

	var predictions linear_regression.PredictionRepository
	if db != nil {
		repo := models.NewSQLRunLogRepository(db)
		// Создаем таблицу журнала, если она еще не существует
		if err := repo.EnsureTable(); err != nil {
			return nil, fmt.Errorf("ошибка при создании таблицы журнала запусков: %w", err)
		}
		r.runLogRepo = repo
		r.loadManager = load.NewLoadManager(db, logger)
		predictions = linear_regression.NewSQLPredictionRepository(db)
	}
	r.regression = linear_regression.NewRegressionProcessor(predictions, logger,
		linear_regression.ConfigFrom(cfg.Regression))

	return r, nil
}

// Close закрывает соединение с базой данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	if err := config.CloseDatabase(r.db); err != nil {
		r.logger.Error("%v", err)
	}
}

// RunLog журнал запусков; nil, если база данных отключена
func (r *ETLRunner) RunLog() models.RunLogRepository {
	return r.runLogRepo
}

// Predictions хранилище прогнозов; nil, если база данных отключена
func (r *ETLRunner) Predictions() linear_regression.PredictionRepository {
	if r.db == nil {
		return nil
	}
	return linear_regression.NewSQLPredictionRepository(r.db)
}

// ExecuteETL выполняет полный процесс. Отчет печатается только после того,
// как данные загружены, профилированы и очищены
func (r *ETLRunner) ExecuteETL(ctx context.Context) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString(), StartedAt: time.Now()}
	logger := r.logger.With("run_id", result.RunID)
	logger.LogETLStart(result.RunID)

	// Создаем запись в журнале запусков
	if r.runLogRepo != nil {
		if err := r.runLogRepo.CreateLogEntry(result.RunID, result.StartedAt); err != nil {
			logger.Error("Ошибка при создании записи в журнале запусков: %v", err)
			return nil, fmt.Errorf("ошибка при создании записи в журнале запусков: %w", err)
		}
	}

	// 1. Загрузка набора данных
	ds, err := r.extractor.Extract(ctx)
	if err != nil {
		return nil, r.fail(logger, result.RunID, "Load", err)
	}
	result.Source, result.Origin = ds.Source, ds.Origin

	// 2. Профилирование
	result.Profile, err = r.profiler.Profile(ds)
	if err != nil {
		return nil, r.fail(logger, result.RunID, "Profile", err)
	}

	// 3. Очистка и обогащение
	result.Data, err = r.transformer.Transform(ds)
	if err != nil {
		return nil, r.fail(logger, result.RunID, "Transform", err)
	}

	// 4. Отчет
	result.Charts = report.NewMemorySink()
	reporter := r.newReporter(result.Charts)
	reporter.ReportLoad(ds)
	reporter.ReportProfile(result.Profile)
	result.Report = reporter.Report(result.Data)

	// 5. Витрина OLAP, некритичный этап
	if r.loadManager != nil {
		if err := r.loadManager.Load(result.Data); err != nil {
			logger.Error("Ошибка в фазе Load OLAP: %v", err)
		}
	}

	// 6. Прогноз тренда, некритичный этап
	result.Forecast, err = r.regression.Process(result.RunID, result.Data.World)
	if err != nil {
		logger.Error("Ошибка при выполнении линейной регрессии: %v", err)
	}
	reporter.ReportForecast(result.Forecast)
	reporter.ReportFooter()

	result.FinishedAt = time.Now()
	meta := result.Data.Metadata
	r.updateRunLogSuccess(logger, result.RunID, result.FinishedAt, models.RunCounters{
		Source:       string(ds.Source),
		RawRows:      meta.RawRows,
		FilteredRows: meta.FilteredRows,
		Locations:    meta.Locations,
	})
	logger.LogETLComplete(result.StartedAt, meta.RawRows, meta.FilteredRows, meta.Locations)
	return result, nil
}

// ExecuteForecast загружает и очищает данные и строит только прогноз тренда
func (r *ETLRunner) ExecuteForecast(ctx context.Context, cfg linear_regression.Config) (*linear_regression.TrendForecast, error) {
	r.logger.Info("Запуск линейной регрессии с параметрами: дней=%d, прогноз=%d дней, доверие=%.2f, минR²=%.2f",
		cfg.AnalysisPeriodDays, cfg.ForecastDays, cfg.ConfidenceLevel, cfg.MinR2Threshold)

	ds, err := r.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка в фазе Load: %w", err)
	}
	data, err := r.transformer.Transform(ds)
	if err != nil {
		return nil, fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	forecast, err := linear_regression.NewRegressionProcessor(r.Predictions(), r.logger, cfg).
		Process(uuid.NewString(), data.World)
	if forecast == nil {
		return nil, err
	}
	if err != nil {
		r.logger.Error("Ошибка при сохранении прогноза: %v", err)
	}

	r.newReporter(nil).ReportForecast(forecast)
	return forecast, nil
}

// newReporter генератор отчета, сохраняющий графики в charts и каталог графиков
func (r *ETLRunner) newReporter(charts *report.MemorySink) *report.Reporter {
	var sink report.ChartSink
	switch {
	case charts != nil && r.dirSink != nil:
		sink = report.TeeSink{charts, r.dirSink}
	case charts != nil:
		sink = charts
	case r.dirSink != nil:
		sink = r.dirSink
	}
	return report.NewReporter(r.out, sink, r.config.Analysis, r.logger)
}

// fail фиксирует ошибку фазы в журнале и возвращает ее обернутой
func (r *ETLRunner) fail(logger *utils.ETLLogger, runID, phase string, err error) error {
	errMsg := fmt.Sprintf("Ошибка в фазе %s: %v", phase, err)
	logger.Error("%s", errMsg)

	if r.runLogRepo != nil {
		if logErr := r.runLogRepo.UpdateLogEntryFailure(runID, time.Now(), errMsg); logErr != nil {
			logger.Error("Ошибка при обновлении записи в журнале запусков: %v", logErr)
		}
	}
	return fmt.Errorf("ошибка в фазе %s: %w", phase, err)
}

func (r *ETLRunner) updateRunLogSuccess(logger *utils.ETLLogger, runID string, endTime time.Time, counters models.RunCounters) {
	if r.runLogRepo == nil {
		return
	}
	if err := r.runLogRepo.UpdateLogEntrySuccess(runID, endTime, counters); err != nil {
		logger.Error("Ошибка при обновлении записи в журнале запусков: %v", err)
	}
}

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ETLLogger представляет логгер для конвейера обработки данных
type ETLLogger struct {
	logger    zerolog.Logger
	file      *os.File
	isVerbose bool
}

// NewETLLogger создает логгер, пишущий в stderr и, если задан logDir,
// в ежедневный файл etl_log_YYYY-MM-DD.log
func NewETLLogger(verbose bool, logDir string) *ETLLogger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	writers := []io.Writer{console}

	var file *os.File
	if logDir != "" {
		logFileName := filepath.Join(logDir, fmt.Sprintf("etl_log_%s.log", time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
		if err != nil {
			// Файл лога не обязателен, продолжаем только с консолью
			fmt.Fprintf(os.Stderr, "Не удалось открыть или создать файл лога: %v\n", err)
		} else {
			file = f
			writers = append(writers, f)
		}
	}

	l := NewETLLoggerWithWriter(zerolog.MultiLevelWriter(writers...), verbose)
	l.file = file
	return l
}

// NewETLLoggerWithWriter создает логгер поверх произвольного writer
func NewETLLoggerWithWriter(w io.Writer, verbose bool) *ETLLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return &ETLLogger{
		logger:    zerolog.New(w).Level(level).With().Timestamp().Logger(),
		isVerbose: verbose,
	}
}

// NewNopLogger логгер, который ничего не пишет
func NewNopLogger() *ETLLogger {
	return &ETLLogger{logger: zerolog.Nop()}
}

// Close закрывает файл лога
func (l *ETLLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// With возвращает логгер с постоянным полем, например идентификатором запуска
func (l *ETLLogger) With(key, value string) *ETLLogger {
	return &ETLLogger{
		logger:    l.logger.With().Str(key, value).Logger(),
		isVerbose: l.isVerbose,
	}
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

// Warn логирует предупреждение
func (l *ETLLogger) Warn(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

// LogETLStart логирует начало запуска конвейера
func (l *ETLLogger) LogETLStart(runID string) {
	l.logger.Info().Str("run_id", runID).Msg("Начало выполнения конвейера COVID-19")
}

// LogETLComplete логирует завершение запуска
func (l *ETLLogger) LogETLComplete(startTime time.Time, rawRows, filteredRows, locations int) {
	l.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("raw_rows", rawRows).
		Int("filtered_rows", filteredRows).
		Int("locations", locations).
		Msg("Конвейер завершён")
}

// LogExtractStart логирует начало фазы загрузки данных
func (l *ETLLogger) LogExtractStart(url string) {
	l.Info("Начало фазы Extract (загрузка набора данных с %s)", url)
}

// LogExtractComplete логирует завершение фазы загрузки данных
func (l *ETLLogger) LogExtractComplete(source string, rows int, duration time.Duration) {
	l.Info("Фаза Extract завершена. Источник: %s, строк: %d, длительность: %v", source, rows, duration)
}

// LogPhaseComplete логирует завершение произвольной фазы
func (l *ETLLogger) LogPhaseComplete(phase string, duration time.Duration) {
	l.Info("Фаза %s завершена. Длительность: %v", phase, duration)
}

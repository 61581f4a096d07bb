package extractors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

var (
	// ErrRemoteFetchFailed удаленный источник недоступен или вернул некорректные данные
	ErrRemoteFetchFailed = errors.New("не удалось загрузить данные с удаленного источника")
	// ErrLocalFallbackFailed локальная копия отсутствует или некорректна
	ErrLocalFallbackFailed = errors.New("не удалось прочитать локальную копию данных")
)

// Extractor координирует загрузку набора данных: удаленный источник, затем одна локальная копия
type Extractor struct {
	logger       *utils.ETLLogger
	remote       *RemoteExtractor
	file         *FileExtractor
	cache        *DatasetCache
	url          string
	fallbackPath string
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(cfg config.SourceConfig, logger *utils.ETLLogger) *Extractor {
	var cache *DatasetCache
	if cfg.CachePath != "" {
		cache = NewDatasetCache(cfg.CachePath)
	}

	return &Extractor{
		logger:       logger,
		remote:       NewRemoteExtractor(cfg.URL, cfg.Timeout),
		file:         NewFileExtractor(),
		cache:        cache,
		url:          cfg.URL,
		fallbackPath: cfg.FallbackPath,
	}
}

// Extract загружает набор данных. Если не удалось ни то, ни другое, ошибка
// соответствует и ErrRemoteFetchFailed, и ErrLocalFallbackFailed
func (e *Extractor) Extract(ctx context.Context) (*models.Dataset, error) {
	startTime := time.Now()
	e.logger.LogExtractStart(e.url)

	// 1. Удаленный источник
	dataset, remoteErr := e.extractRemote(ctx)
	if remoteErr == nil {
		e.logger.LogExtractComplete(string(dataset.Source), dataset.Rows(), time.Since(startTime))
		return dataset, nil
	}
	e.logger.Error("Ошибка загрузки данных с %s: %v", e.url, remoteErr)

	// 2. Локальная копия, без повторных попыток
	e.logger.Info("Переход на локальную копию %s", e.fallbackPath)
	dataset, localErr := e.extractFallback()
	if localErr == nil {
		e.logger.LogExtractComplete(string(dataset.Source), dataset.Rows(), time.Since(startTime))
		return dataset, nil
	}
	e.logger.Error("Ошибка чтения локальной копии %s: %v", e.fallbackPath, localErr)

	return nil, errors.Join(
		fmt.Errorf("%w: %w", ErrRemoteFetchFailed, remoteErr),
		fmt.Errorf("%w: %w", ErrLocalFallbackFailed, localErr),
	)
}

func (e *Extractor) extractRemote(ctx context.Context) (*models.Dataset, error) {
	var writer *CacheWriter
	if e.cache != nil {
		w, err := e.cache.Begin()
		if err != nil {
			e.logger.Error("Не удалось открыть кэш набора данных: %v", err)
		} else {
			writer = w
		}
	}

	var sink io.Writer
	if writer != nil {
		sink = writer
	}
	frame, header, err := e.remote.Fetch(ctx, sink)
	if err != nil {
		if writer != nil {
			writer.Abort()
		}
		return nil, err
	}

	if writer != nil {
		if err := writer.Commit(); err != nil {
			e.logger.Error("Не удалось сохранить кэш набора данных: %v", err)
		} else {
			e.logger.Debug("Набор данных сохранен в кэш %s", e.cache.Path())
		}
	}

	return &models.Dataset{
		Frame:    frame,
		Columns:  header,
		Source:   models.SourceRemote,
		Origin:   e.url,
		LoadedAt: time.Now(),
	}, nil
}

func (e *Extractor) extractFallback() (*models.Dataset, error) {
	if e.fallbackPath == "" {
		return nil, errors.New("путь к локальной копии не задан")
	}

	frame, header, err := e.file.Read(e.fallbackPath)
	if err != nil {
		return nil, err
	}

	return &models.Dataset{
		Frame:    frame,
		Columns:  header,
		Source:   models.SourceFallback,
		Origin:   e.fallbackPath,
		LoadedAt: time.Now(),
	}, nil
}

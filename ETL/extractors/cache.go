package extractors

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
)

// DatasetCache хранит последнюю удачную загрузку в snappy-формате
type DatasetCache struct {
	path string
}

// NewDatasetCache создает новый экземпляр DatasetCache
func NewDatasetCache(path string) *DatasetCache {
	return &DatasetCache{path: path}
}

// Path путь к файлу кэша
func (c *DatasetCache) Path() string {
	return c.path
}

// Begin открывает временный файл рядом с кэшем; кэш заменяется только после Commit
func (c *DatasetCache) Begin() (*CacheWriter, error) {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога кэша: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла кэша: %w", err)
	}

	return &CacheWriter{
		tmp:    tmp,
		stream: snappy.NewBufferedWriter(tmp),
		path:   c.path,
	}, nil
}

// CacheWriter не возвращает ошибок из Write; первая ошибка сохраняется и возвращается из Commit
type CacheWriter struct {
	tmp    *os.File
	stream *snappy.Writer
	path   string
	err    error
}

func (w *CacheWriter) Write(p []byte) (int, error) {
	if w.err == nil {
		_, w.err = w.stream.Write(p)
	}
	return len(p), nil
}

// Commit дописывает поток и атомарно заменяет файл кэша
func (w *CacheWriter) Commit() error {
	err := errors.Join(w.err, w.stream.Close(), w.tmp.Close())
	if err != nil {
		os.Remove(w.tmp.Name())
		return err
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("ошибка замены файла кэша: %w", err)
	}
	return nil
}

// Abort удаляет временный файл
func (w *CacheWriter) Abort() {
	w.stream.Close()
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}

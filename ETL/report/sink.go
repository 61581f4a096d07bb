package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Renderer график, умеющий отрисовать себя в HTML
type Renderer interface {
	Render(w io.Writer) error
}

// ChartSink принимает отрисованные графики
type ChartSink interface {
	Save(name string, chart Renderer) error
}

// DirSink сохраняет графики в каталог как <name>.html
type DirSink struct {
	dir string
}

// NewDirSink создает каталог при необходимости
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога графиков %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// Save отрисовывает график в файл
func (s *DirSink) Save(name string, chart Renderer) error {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return fmt.Errorf("ошибка отрисовки графика %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("ошибка записи графика %s: %w", path, err)
	}
	return nil
}

// MemorySink хранит отрисованные графики в памяти
type MemorySink struct {
	mu     sync.RWMutex
	charts map[string][]byte
	order  []string
}

// NewMemorySink создает пустое хранилище
func NewMemorySink() *MemorySink {
	return &MemorySink{charts: make(map[string][]byte)}
}

// Save отрисовывает график в буфер
func (s *MemorySink) Save(name string, chart Renderer) error {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return fmt.Errorf("ошибка отрисовки графика %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charts[name]; !ok {
		s.order = append(s.order, name)
	}
	s.charts[name] = buf.Bytes()
	return nil
}

// Names имена графиков в порядке сохранения
func (s *MemorySink) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Chart возвращает HTML графика
func (s *MemorySink) Chart(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	html, ok := s.charts[name]
	return html, ok
}

// TeeSink сохраняет график во все вложенные хранилища
type TeeSink []ChartSink

// Save передает график каждому хранилищу, ошибки объединяются
func (t TeeSink) Save(name string, chart Renderer) error {
	var errs []error
	for _, sink := range t {
		if err := sink.Save(name, chart); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

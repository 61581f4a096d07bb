// routes/store.go
package routes

import (
	"sync"

	"github.com/LilVoxy/covid_tracker/ETL/runner"
)

// ReportStore хранит результат последнего успешного запуска.
// Опубликованный результат больше не изменяется
type ReportStore struct {
	mu     sync.RWMutex
	latest *runner.RunResult
}

// NewReportStore создает пустое хранилище
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Publish заменяет последний результат
func (s *ReportStore) Publish(result *runner.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = result
}

// Latest последний результат или nil
func (s *ReportStore) Latest() *runner.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

package models

import (
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Source источник, из которого были получены данные
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Dataset сырой набор данных, полученный загрузчиком
type Dataset struct {
	// Frame содержит только обязательные колонки
	Frame dataframe.DataFrame
	// Columns полный заголовок исходного CSV
	Columns  []string
	Source   Source
	Origin   string
	LoadedAt time.Time
}

// Rows количество строк набора
func (d *Dataset) Rows() int {
	return d.Frame.Nrow()
}

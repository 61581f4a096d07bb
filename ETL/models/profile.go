package models

import "database/sql"

// ColumnSummary описательная статистика по непустым значениям колонки
type ColumnSummary struct {
	Column string
	Count  int
	Mean   sql.NullFloat64
	Std    sql.NullFloat64
	Min    sql.NullFloat64
	P25    sql.NullFloat64
	P50    sql.NullFloat64
	P75    sql.NullFloat64
	Max    sql.NullFloat64
}

// MissingStat количество и доля пропусков в колонке
type MissingStat struct {
	Column  string
	Missing int
	Percent float64
}

// DatasetProfile диагностика сырого набора данных
type DatasetProfile struct {
	Rows      int
	Columns   int
	MinDate   string
	MaxDate   string
	Locations int
	Header    []string
	Summary   []ColumnSummary
	Missing   []MissingStat
}

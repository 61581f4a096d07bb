package models

import (
	"database/sql"
	"time"
)

// CorrelationMatrix матрица коэффициентов Пирсона; пустая ячейка означает недостаток данных
type CorrelationMatrix struct {
	Columns []string
	Values  [][]sql.NullFloat64
}

// At возвращает коэффициент для пары колонок
func (m CorrelationMatrix) At(row, col string) (sql.NullFloat64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == row {
			i = k
		}
		if c == col {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return sql.NullFloat64{}, false
	}
	return m.Values[i][j], true
}

// MapRow строка карты на последнюю дату набора
type MapRow struct {
	Location        string
	ISOCode         string
	TotalCases      sql.NullFloat64
	VaccinationRate sql.NullFloat64
}

// TransformedData результат очистки и обогащения
type TransformedData struct {
	// Records все строки с разобранными датами
	Records []Record
	// Filtered строки стран из списка, упорядоченные по локации и дате
	Filtered []EnrichedRecord
	// Latest последняя строка каждой локации, по убыванию total_cases
	Latest []Record
	// LatestFiltered последняя строка каждой страны из списка, по убыванию vaccination_rate
	LatestFiltered []EnrichedRecord
	Correlation    CorrelationMatrix
	MapDate        time.Time
	MapRows        []MapRow
	Countries      []string
	// World ряд агрегата World из полного набора, обогащенный как Filtered
	World []EnrichedRecord

	Metadata TransformMetadata
}

// TransformMetadata счетчики трансформации для журнала запусков
type TransformMetadata struct {
	RawRows      int
	FilteredRows int
	Locations    int
	MinDate      time.Time
	MaxDate      time.Time
}

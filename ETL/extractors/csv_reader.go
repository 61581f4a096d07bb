package extractors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// ReadDataset разбирает CSV OWID и оставляет только обязательные колонки.
// Возвращает таблицу и полный заголовок исходного файла
func ReadDataset(r io.Reader) (dataframe.DataFrame, []string, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	// 1. Заголовок и позиции обязательных колонок
	raw, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dataframe.DataFrame{}, nil, errors.New("пустой CSV")
		}
		return dataframe.DataFrame{}, nil, fmt.Errorf("ошибка чтения заголовка CSV: %w", err)
	}
	header := slices.Clone(raw)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	positions := make([]int, len(models.RequiredColumns))
	var missing []string
	for i, column := range models.RequiredColumns {
		positions[i] = slices.Index(header, column)
		if positions[i] < 0 {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, nil, fmt.Errorf("отсутствуют обязательные колонки: %s", strings.Join(missing, ", "))
	}

	// 2. Строки, спроецированные на обязательные колонки
	records := [][]string{slices.Clone(models.RequiredColumns)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dataframe.DataFrame{}, nil, fmt.Errorf("некорректный CSV: %w", err)
		}

		row := make([]string, len(positions))
		for i, pos := range positions {
			row[i] = record[pos]
		}
		records = append(records, row)
	}

	if len(records) == 1 {
		return dataframe.DataFrame{}, nil, errors.New("набор данных не содержит строк")
	}

	// 3. Типизированная таблица: метрики как float (пустые значения становятся NaN)
	frame := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.NaNValues(nil),
		dataframe.WithTypes(map[string]series.Type{
			models.ColDate:     series.String,
			models.ColLocation: series.String,
			models.ColISOCode:  series.String,
		}),
	)
	if frame.Err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("ошибка построения таблицы: %w", frame.Err)
	}

	return frame, header, nil
}

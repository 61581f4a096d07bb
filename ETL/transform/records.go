package transform

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// DateLayout формат даты в наборе OWID
const DateLayout = "2006-01-02"

// ErrDateFormat значение даты не удалось разобрать
var ErrDateFormat = errors.New("некорректный формат даты")

var numericColumns = []string{
	models.ColPopulation,
	models.ColTotalCases,
	models.ColNewCases,
	models.ColTotalDeaths,
	models.ColNewDeaths,
	models.ColTotalVaccinations,
	models.ColPeopleVaccinated,
	models.ColPeopleFullyVaccinated,
}

// ParseRecords переводит таблицу в типизированные строки.
// Первая неразборчивая дата прерывает разбор с ErrDateFormat
func ParseRecords(frame dataframe.DataFrame) ([]models.Record, error) {
	dates, err := stringColumn(frame, models.ColDate)
	if err != nil {
		return nil, err
	}
	locations, err := stringColumn(frame, models.ColLocation)
	if err != nil {
		return nil, err
	}
	isoCodes, err := stringColumn(frame, models.ColISOCode)
	if err != nil {
		return nil, err
	}

	numeric := make(map[string][]float64, len(numericColumns))
	for _, column := range numericColumns {
		col := frame.Col(column)
		if col.Err != nil {
			return nil, fmt.Errorf("ошибка чтения колонки %s: %w", column, col.Err)
		}
		numeric[column] = col.Float()
	}

	records := make([]models.Record, len(dates))
	for i, raw := range dates {
		date, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: строка данных %d, значение %q", ErrDateFormat, i+1, raw)
		}

		records[i] = models.Record{
			Date:                  date,
			Location:              locations[i],
			ISOCode:               isoCodes[i],
			Population:            models.Value(numeric[models.ColPopulation][i]),
			TotalCases:            models.Value(numeric[models.ColTotalCases][i]),
			NewCases:              models.Value(numeric[models.ColNewCases][i]),
			TotalDeaths:           models.Value(numeric[models.ColTotalDeaths][i]),
			NewDeaths:             models.Value(numeric[models.ColNewDeaths][i]),
			TotalVaccinations:     models.Value(numeric[models.ColTotalVaccinations][i]),
			PeopleVaccinated:      models.Value(numeric[models.ColPeopleVaccinated][i]),
			PeopleFullyVaccinated: models.Value(numeric[models.ColPeopleFullyVaccinated][i]),
		}
	}

	return records, nil
}

func stringColumn(frame dataframe.DataFrame, column string) ([]string, error) {
	col := frame.Col(column)
	if col.Err != nil {
		return nil, fmt.Errorf("ошибка чтения колонки %s: %w", column, col.Err)
	}
	return col.Records(), nil
}

package profile

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/covid_tracker/ETL/extractors"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

const sampleCSV = `iso_code,continent,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated,people_fully_vaccinated,population
OWID_WRL,,World,2021-01-02,100,10,2,1,,,,7800000000
OWID_WRL,,World,2021-01-03,120,20,3,1,50,40,10,7800000000
KEN,Africa,Kenya,2020-12-30,5,1,,,,,,54000000
`

func loadSample(t *testing.T) *models.Dataset {
	t.Helper()
	frame, header, err := extractors.ReadDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return &models.Dataset{Frame: frame, Columns: header, Source: models.SourceFallback}
}

func summaryFor(t *testing.T, p *models.DatasetProfile, column string) models.ColumnSummary {
	t.Helper()
	for _, s := range p.Summary {
		if s.Column == column {
			return s
		}
	}
	t.Fatalf("колонка %s отсутствует в профиле", column)
	return models.ColumnSummary{}
}

func TestProfiler_Profile(t *testing.T) {
	p, err := NewProfiler(utils.NewNopLogger()).Profile(loadSample(t))
	require.NoError(t, err)

	assert.Equal(t, 3, p.Rows)
	assert.Equal(t, 12, p.Columns)
	assert.Equal(t, "2020-12-30", p.MinDate)
	assert.Equal(t, "2021-01-03", p.MaxDate)
	assert.Equal(t, 2, p.Locations)
	require.Len(t, p.Summary, len(models.KeyMetrics))
	require.Len(t, p.Missing, len(models.KeyMetrics))

	cases := summaryFor(t, p, models.ColTotalCases)
	assert.Equal(t, 3, cases.Count)
	assert.InDelta(t, 75, cases.Mean.Float64, 1e-9)
	assert.InDelta(t, math.Sqrt(3775), cases.Std.Float64, 1e-9)
	assert.InDelta(t, 5, cases.Min.Float64, 1e-9)
	assert.InDelta(t, 52.5, cases.P25.Float64, 1e-9)
	assert.InDelta(t, 100, cases.P50.Float64, 1e-9)
	assert.InDelta(t, 110, cases.P75.Float64, 1e-9)
	assert.InDelta(t, 120, cases.Max.Float64, 1e-9)

	missing := map[string]models.MissingStat{}
	for _, m := range p.Missing {
		missing[m.Column] = m
	}
	assert.Equal(t, 0, missing[models.ColTotalCases].Missing)
	assert.Equal(t, 0.0, missing[models.ColTotalCases].Percent)
	assert.Equal(t, 1, missing[models.ColNewDeaths].Missing)
	assert.Equal(t, 33.33, missing[models.ColNewDeaths].Percent)
	assert.Equal(t, 2, missing[models.ColPeopleFullyVaccinated].Missing)
	assert.Equal(t, 66.67, missing[models.ColPeopleFullyVaccinated].Percent)
}

func TestDescribe(t *testing.T) {
	tests := map[string]struct {
		values    []float64
		wantCount int
		wantMean  float64
		hasMean   bool
		hasStd    bool
	}{
		"no values": {
			values: nil,
		},
		"single value has no std": {
			values:    []float64{7},
			wantCount: 1,
			wantMean:  7,
			hasMean:   true,
		},
		"several values": {
			values:    []float64{4, 1, 3, 2},
			wantCount: 4,
			wantMean:  2.5,
			hasMean:   true,
			hasStd:    true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := Describe("x", tc.values)
			assert.Equal(t, tc.wantCount, s.Count)
			assert.Equal(t, tc.hasMean, s.Mean.Valid)
			assert.Equal(t, tc.hasStd, s.Std.Valid)
			if tc.hasMean {
				assert.InDelta(t, tc.wantMean, s.Mean.Float64, 1e-9)
			}
		})
	}
}

func TestDescribe_QuartilesInterpolate(t *testing.T) {
	s := Describe("x", []float64{4, 1, 3, 2})
	assert.InDelta(t, 1.75, s.P25.Float64, 1e-9)
	assert.InDelta(t, 2.5, s.P50.Float64, 1e-9)
	assert.InDelta(t, 3.25, s.P75.Float64, 1e-9)
	assert.InDelta(t, 1, s.Min.Float64, 1e-9)
	assert.InDelta(t, 4, s.Max.Float64, 1e-9)
}

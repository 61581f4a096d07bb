package extractors

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

const sampleCSV = `iso_code,continent,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated,people_fully_vaccinated,population
OWID_WRL,,World,2021-01-01,100,10,2,1,,,,7800000000
OWID_WRL,,World,2021-01-02,120,20,3,1,50,40,10,7800000000
KEN,Africa,Kenya,2021-01-01,5,1,,,,,,54000000
`

const fallbackCSV = `iso_code,continent,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated,people_fully_vaccinated,population
DEU,Europe,Germany,2021-01-01,900,90,20,2,,,,83000000
`

func csvServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newExtractor(url, fallback, cache string) *Extractor {
	return NewExtractor(config.SourceConfig{
		URL:          url,
		FallbackPath: fallback,
		Timeout:      5 * time.Second,
		CachePath:    cache,
	}, utils.NewNopLogger())
}

func TestExtractor_RemoteSuccess(t *testing.T) {
	srv := csvServer(t, http.StatusOK, sampleCSV)

	ds, err := newExtractor(srv.URL, "", "").Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceRemote, ds.Source)
	assert.Equal(t, srv.URL, ds.Origin)
	assert.Equal(t, 3, ds.Rows())
	assert.Len(t, ds.Columns, 12)
	assert.Equal(t, len(models.RequiredColumns), ds.Frame.Ncol())

	cases := ds.Frame.Col(models.ColTotalCases).Float()
	assert.Equal(t, []float64{100, 120, 5}, cases)

	vaccinations := ds.Frame.Col(models.ColTotalVaccinations).Float()
	assert.True(t, math.IsNaN(vaccinations[0]))
	assert.Equal(t, 50.0, vaccinations[1])

	assert.Equal(t, []string{"World", "World", "Kenya"}, ds.Frame.Col(models.ColLocation).Records())
	assert.Equal(t, []string{"2021-01-01", "2021-01-02", "2021-01-01"}, ds.Frame.Col(models.ColDate).Records())
}

func TestExtractor_FallsBackOnRemoteFailure(t *testing.T) {
	tests := map[string]struct {
		url func(t *testing.T) string
	}{
		"unreachable url": {
			url: unreachableURL,
		},
		"server error": {
			url: func(t *testing.T) string { return csvServer(t, http.StatusInternalServerError, "oops").URL },
		},
		"missing required column": {
			url: func(t *testing.T) string {
				return csvServer(t, http.StatusOK, "location,date\nWorld,2021-01-01\n").URL
			},
		},
		"malformed csv": {
			url: func(t *testing.T) string {
				return csvServer(t, http.StatusOK, sampleCSV+"KEN,Africa,Kenya\n").URL
			},
		},
		"header only": {
			url: func(t *testing.T) string {
				return csvServer(t, http.StatusOK, "iso_code,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated,people_fully_vaccinated,population\n").URL
			},
		},
		"empty url": {
			url: func(t *testing.T) string { return "" },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			fallback := writeFile(t, "owid-covid-data.csv", fallbackCSV)

			ds, err := newExtractor(tc.url(t), fallback, "").Extract(context.Background())
			require.NoError(t, err)
			assert.Equal(t, models.SourceFallback, ds.Source)
			assert.Equal(t, fallback, ds.Origin)
			assert.Equal(t, 1, ds.Rows())
			assert.Equal(t, []string{"Germany"}, ds.Frame.Col(models.ColLocation).Records())
			assert.Equal(t, []float64{900}, ds.Frame.Col(models.ColTotalCases).Float())
		})
	}
}

func TestExtractor_BothSourcesFail(t *testing.T) {
	tests := map[string]struct {
		fallback func(t *testing.T) string
	}{
		"absent fallback": {
			fallback: func(t *testing.T) string { return filepath.Join(t.TempDir(), "owid-covid-data.csv") },
		},
		"empty fallback path": {
			fallback: func(t *testing.T) string { return "" },
		},
		"invalid fallback": {
			fallback: func(t *testing.T) string { return writeFile(t, "bad.csv", "a,b\n1,2\n") },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := newExtractor(unreachableURL(t), tc.fallback(t), "").Extract(context.Background())
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.ErrorIs(t, err, ErrRemoteFetchFailed)
			assert.ErrorIs(t, err, ErrLocalFallbackFailed)
		})
	}
}

func TestExtractor_CancelledContextStillUsesFallback(t *testing.T) {
	srv := csvServer(t, http.StatusOK, sampleCSV)
	fallback := writeFile(t, "owid-covid-data.csv", fallbackCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := newExtractor(srv.URL, fallback, "").Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, ds.Source)
}

func TestExtractor_CacheServesAsFallback(t *testing.T) {
	srv := csvServer(t, http.StatusOK, sampleCSV)
	cachePath := filepath.Join(t.TempDir(), "cache", "owid-covid-data.csv.sz")

	_, err := newExtractor(srv.URL, "", cachePath).Extract(context.Background())
	require.NoError(t, err)
	require.FileExists(t, cachePath)

	ds, err := newExtractor(unreachableURL(t), cachePath, "").Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, ds.Source)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []float64{100, 120, 5}, ds.Frame.Col(models.ColTotalCases).Float())
}

func TestExtractor_FailedRemoteLeavesCacheUntouched(t *testing.T) {
	cachePath := writeFile(t, "owid.csv.sz", "previous")
	srv := csvServer(t, http.StatusBadGateway, "")

	_, err := newExtractor(srv.URL, "", cachePath).Extract(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(filepath.Dir(cachePath))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExtractor_CacheFailureIsNotFatal(t *testing.T) {
	srv := csvServer(t, http.StatusOK, sampleCSV)
	notADir := writeFile(t, "file", "x")

	ds, err := newExtractor(srv.URL, "", filepath.Join(notADir, "owid.csv.sz")).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, ds.Source)
}

func TestReadDataset_StripsBOM(t *testing.T) {
	frame, header, err := ReadDataset(strings.NewReader("\ufeff" + fallbackCSV))
	require.NoError(t, err)
	assert.Equal(t, "iso_code", header[0])
	assert.Equal(t, 1, frame.Nrow())
}

package runner

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/extractors"
	"github.com/LilVoxy/covid_tracker/ETL/linear_regression"
	"github.com/LilVoxy/covid_tracker/ETL/models"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

const samplePath = "testdata/owid_sample.csv"

func serveSample(t *testing.T) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(samplePath)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url, fallback string) config.ETLConfig {
	cfg := config.GetConfig()
	cfg.Source.URL = url
	cfg.Source.FallbackPath = fallback
	cfg.Source.Timeout = 5 * time.Second
	cfg.Regression.AnalysisPeriodDays = 30
	cfg.Regression.ForecastDays = 3
	return cfg
}

func newTestRunner(t *testing.T, cfg config.ETLConfig, repo models.RunLogRepository) (*ETLRunner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r, err := newRunner(cfg, nil, &out, utils.NewNopLogger())
	require.NoError(t, err)
	r.runLogRepo = repo
	return r, &out
}

func TestExecuteETL_RemoteSource(t *testing.T) {
	srv := serveSample(t)
	ctrl := gomock.NewController(t)
	repo := models.NewMockRunLogRepository(ctrl)

	var runID string
	repo.EXPECT().CreateLogEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(id string, _ time.Time) error {
			runID = id
			return nil
		})
	repo.EXPECT().UpdateLogEntrySuccess(gomock.Any(), gomock.Any(), models.RunCounters{
		Source:       string(models.SourceRemote),
		RawRows:      11,
		FilteredRows: 10,
		Locations:    4,
	}).Return(nil)

	r, out := newTestRunner(t, testConfig(srv.URL, ""), repo)
	result, err := r.ExecuteETL(context.Background())
	require.NoError(t, err)

	assert.Equal(t, runID, result.RunID)
	assert.Equal(t, models.SourceRemote, result.Source)
	assert.Equal(t, 11, result.Profile.Rows)
	assert.Equal(t, 12, result.Profile.Columns)
	assert.Equal(t, 4, result.Profile.Locations)
	assert.Len(t, result.Data.LatestFiltered, 3)
	assert.Empty(t, result.Report.Failed)
	assert.Equal(t, result.Report.Rendered, result.Charts.Names())

	require.NotNil(t, result.Forecast)
	assert.Equal(t, models.WorldLocation, result.Forecast.Location)
	assert.Len(t, result.Forecast.Forecasts, 3)
	assert.Greater(t, result.Forecast.Result.Slope, 0.0)

	text := out.String()
	assert.Contains(t, text, "✅ Data loaded successfully!")
	assert.Contains(t, text, "Dataset shape: (11, 12)")
	assert.Contains(t, text, "Global COVID-19 Statistics (as of 2021-03-06):")
	assert.Contains(t, text, "- Total Cases: 1,800")
	assert.Contains(t, text, "Case trend forecast")
	assert.Contains(t, text, "Report completed successfully!")
}

func TestExecuteETL_FallbackSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	r, out := newTestRunner(t, testConfig(srv.URL, samplePath), nil)
	result, err := r.ExecuteETL(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceFallback, result.Source)
	assert.Contains(t, out.String(), "✅ Data loaded from local file!")
}

func TestExecuteETL_LoadFailureProducesNoReport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ctrl := gomock.NewController(t)
	repo := models.NewMockRunLogRepository(ctrl)
	repo.EXPECT().CreateLogEntry(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().UpdateLogEntryFailure(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	cfg := testConfig(url, filepath.Join(t.TempDir(), "missing.csv"))
	r, out := newTestRunner(t, cfg, repo)

	result, err := r.ExecuteETL(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, extractors.ErrRemoteFetchFailed)
	assert.ErrorIs(t, err, extractors.ErrLocalFallbackFailed)
	assert.Empty(t, out.String())
}

func TestExecuteETL_FailureLogKeepsPercentSigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := models.NewMockRunLogRepository(ctrl)

	var runID, logged string
	repo.EXPECT().CreateLogEntry(gomock.Any(), gomock.Any()).DoAndReturn(func(id string, _ time.Time) error {
		runID = id
		return nil
	})
	repo.EXPECT().UpdateLogEntryFailure(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ string, _ time.Time, msg string) error {
			logged = msg
			return nil
		})

	cfg := testConfig("", filepath.Join(t.TempDir(), "my%20file.csv"))
	r, _ := newTestRunner(t, cfg, repo)
	var logs bytes.Buffer
	r.logger = utils.NewETLLoggerWithWriter(&logs, false)

	_, err := r.ExecuteETL(context.Background())
	require.Error(t, err)

	assert.Contains(t, logged, "my%20file.csv")
	assert.Contains(t, logs.String(), "Ошибка в фазе Load")
	assert.Contains(t, logs.String(), "my%20file.csv")
	assert.NotContains(t, logs.String(), "%!")
	assert.Contains(t, logs.String(), `"run_id":"`+runID+`"`)
}

func TestExecuteETL_UnparseableDateProducesNoReport(t *testing.T) {
	body, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	broken := bytes.Replace(body, []byte("2021-03-05,50"), []byte("05.03.2021,50"), 1)
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, broken, 0o644))

	r, out := newTestRunner(t, testConfig("", path), nil)
	_, err = r.ExecuteETL(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Transform")
	assert.Empty(t, out.String())
}

func TestExecuteETL_WithDatabase(t *testing.T) {
	srv := serveSample(t)
	cfg := testConfig(srv.URL, "")
	cfg.OLAPConfig = config.DatabaseConfig{
		Enabled: true,
		Driver:  config.DriverSQLite,
		Path:    filepath.Join(t.TempDir(), "olap.db"),
	}
	cfg.Report.ChartsDir = filepath.Join(t.TempDir(), "charts")

	var out bytes.Buffer
	r, err := NewETLRunner(context.Background(), cfg, &out, utils.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(r.Close)

	result, err := r.ExecuteETL(context.Background())
	require.NoError(t, err)

	last, err := r.RunLog().GetLastSuccessfulRun()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, result.RunID, last.ID)
	assert.Equal(t, 11, last.RawRows)

	var snapshots int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM location_snapshots`).Scan(&snapshots))
	assert.Equal(t, 4, snapshots)

	assert.FileExists(t, filepath.Join(cfg.Report.ChartsDir, "total_cases.html"))
}

func TestExecuteForecast(t *testing.T) {
	srv := serveSample(t)
	r, out := newTestRunner(t, testConfig(srv.URL, ""), nil)

	forecast, err := r.ExecuteForecast(context.Background(), linear_regression.Config{
		AnalysisPeriodDays: 10,
		ForecastDays:       5,
		ConfidenceLevel:    0.9,
		MinR2Threshold:     0.3,
	})
	require.NoError(t, err)
	assert.Len(t, forecast.Forecasts, 5)
	assert.Contains(t, out.String(), "Case trend forecast")
	assert.NotContains(t, out.String(), "Data Exploration")
}

func TestStartScheduler_RunsImmediately(t *testing.T) {
	srv := serveSample(t)
	r, _ := newTestRunner(t, testConfig(srv.URL, ""), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *RunResult, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.StartScheduler(ctx, func(res *RunResult) {
			results <- res
			cancel()
		})
	}()

	select {
	case res := <-results:
		assert.Equal(t, models.SourceRemote, res.Source)
	case <-time.After(10 * time.Second):
		t.Fatal("планировщик не выполнил первый запуск")
	}
	require.NoError(t, <-errCh)
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://covid.ourworldindata.org/data/owid-covid-data.csv", cfg.Source.URL)
	assert.Equal(t, "owid-covid-data.csv", cfg.Source.FallbackPath)
	assert.Equal(t, 7, cfg.Analysis.RollingWindow)
	assert.Equal(t, 1, cfg.Analysis.RollingMinPeriods)
	assert.Equal(t, 30, cfg.Analysis.GrowthWindow)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Len(t, cfg.Analysis.Countries, 10)
	assert.False(t, cfg.OLAPConfig.Enabled)

	// Изменение копии не должно менять значения по умолчанию
	cfg.Analysis.Countries[0] = "Mars"
	assert.Equal(t, "World", GetConfig().Analysis.Countries[0])
}

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		body    string
		wantErr string
		check   func(t *testing.T, cfg ETLConfig)
	}{
		"overlay keeps unspecified defaults": {
			body: `
source:
  fallback_path: data/owid.csv.sz
  timeout: 5s
analysis:
  countries: [World, Kenya]
  rolling_min_periods: 7
olap:
  enabled: true
  driver: sqlite
  path: analytics.db
run_interval: 6h
`,
			check: func(t *testing.T, cfg ETLConfig) {
				assert.Equal(t, "data/owid.csv.sz", cfg.Source.FallbackPath)
				assert.Equal(t, DefaultSourceConfig.URL, cfg.Source.URL)
				assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
				assert.Equal(t, []string{"World", "Kenya"}, cfg.Analysis.Countries)
				assert.Equal(t, 7, cfg.Analysis.RollingMinPeriods)
				assert.Equal(t, 7, cfg.Analysis.RollingWindow)
				assert.True(t, cfg.OLAPConfig.Enabled)
				assert.Equal(t, DriverSQLite, cfg.OLAPConfig.Driver)
				assert.Equal(t, 6*time.Hour, cfg.RunInterval)
			},
		},
		"unknown driver": {
			body: `
olap:
  enabled: true
  driver: postgres
`,
			wantErr: "неизвестный драйвер",
		},
		"non positive window": {
			body: `
analysis:
  rolling_window: 0
`,
			wantErr: "rolling_window",
		},
		"min periods above window": {
			body: `
analysis:
  rolling_window: 3
  rolling_min_periods: 4
`,
			wantErr: "rolling_min_periods",
		},
		"malformed yaml": {
			body:    "source: [",
			wantErr: "ошибка разбора",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, GetConfig(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDataSource(t *testing.T) {
	driver, dsn, err := dataSource(DatabaseConfig{
		Driver:   DriverMySQL,
		Host:     "db",
		Port:     3307,
		User:     "etl",
		Password: "secret",
		DBName:   "covid_analytics",
	})
	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, driver)
	assert.Contains(t, dsn, "etl:secret@tcp(db:3307)/covid_analytics")
	assert.Contains(t, dsn, "parseTime=true")

	driver, dsn, err = dataSource(DatabaseConfig{Driver: DriverSQLite, Path: "/tmp/a.db"})
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, driver)
	assert.Equal(t, "file:/tmp/a.db?_pragma=busy_timeout(5000)", dsn)

	_, _, err = dataSource(DatabaseConfig{Driver: DriverSQLite})
	require.Error(t, err)
}

func TestConnectDatabase_SQLite(t *testing.T) {
	db, err := ConnectDatabase(context.Background(), DatabaseConfig{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "olap.db"),
	})
	require.NoError(t, err)
	require.NoError(t, CloseDatabase(db))
}

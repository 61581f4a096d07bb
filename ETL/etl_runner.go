package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/linear_regression"
	"github.com/LilVoxy/covid_tracker/ETL/runner"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// withRunner загружает конфигурацию, создает логгер и ETL Runner и передает их в fn
func withRunner(cmd *cobra.Command, configPath string, fn func(*runner.ETLRunner, config.ETLConfig, *utils.ETLLogger) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := utils.NewETLLogger(cfg.EnableDetailedLogging, cfg.LogDir)
	defer logger.Close()

	r, err := runner.NewETLRunner(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
	if err != nil {
		logger.Error("Ошибка при создании ETL Runner: %v", err)
		return fmt.Errorf("ошибка при создании ETL Runner: %w", err)
	}
	defer r.Close()

	if err := fn(r, cfg, logger); err != nil {
		logger.Error("%v", err)
		return err
	}
	return nil
}

func newOnceCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Выполнить конвейер один раз и напечатать отчет",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, *configPath, func(r *runner.ETLRunner, _ config.ETLConfig, _ *utils.ETLLogger) error {
				if _, err := r.ExecuteETL(cmd.Context()); err != nil {
					return fmt.Errorf("ошибка при выполнении ETL: %w", err)
				}
				return nil
			})
		},
	}
}

func newScheduledCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scheduled",
		Short: "Выполнять конвейер по расписанию run_interval до сигнала завершения",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, *configPath, func(r *runner.ETLRunner, _ config.ETLConfig, _ *utils.ETLLogger) error {
				return r.StartScheduler(cmd.Context(), nil)
			})
		},
	}
}

func newLRCmd(configPath *string) *cobra.Command {
	var (
		days       int
		forecast   int
		confidence float64
		minR2      float64
	)

	cmd := &cobra.Command{
		Use:   "lr",
		Short: "Построить только прогноз тренда новых случаев",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, *configPath, func(r *runner.ETLRunner, cfg config.ETLConfig, logger *utils.ETLLogger) error {
				// Флаги переопределяют секцию regression файла конфигурации
				lrConfig := linear_regression.ConfigFrom(cfg.Regression)
				flags := cmd.Flags()
				if flags.Changed("days") {
					lrConfig.AnalysisPeriodDays = days
				}
				if flags.Changed("forecast") {
					lrConfig.ForecastDays = forecast
				}
				if flags.Changed("confidence") {
					lrConfig.ConfidenceLevel = confidence
				}
				if flags.Changed("min-r2") {
					lrConfig.MinR2Threshold = minR2
				}

				if _, err := r.ExecuteForecast(cmd.Context(), lrConfig); err != nil {
					return fmt.Errorf("ошибка при выполнении линейной регрессии: %w", err)
				}
				logger.Info("Линейная регрессия успешно завершена")
				return nil
			})
		},
	}

	defaults := config.DefaultRegressionConfig
	cmd.Flags().IntVar(&days, "days", defaults.AnalysisPeriodDays, "Количество дней для анализа")
	cmd.Flags().IntVar(&forecast, "forecast", defaults.ForecastDays, "Количество дней для прогноза")
	cmd.Flags().Float64Var(&confidence, "confidence", defaults.ConfidenceLevel, "Уровень доверия")
	cmd.Flags().Float64Var(&minR2, "min-r2", defaults.MinR2Threshold, "Минимальный порог для R²")

	return cmd
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "etl_runner",
		Short:         "Конвейер анализа данных COVID-19 (Our World in Data)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Путь к YAML файлу конфигурации")
	root.AddCommand(newOnceCmd(&configPath), newScheduledCmd(&configPath), newLRCmd(&configPath))

	return root
}

func main() {
	// Контекст отменяется при получении сигнала завершения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

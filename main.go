// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/LilVoxy/covid_tracker/ETL/config"
	"github.com/LilVoxy/covid_tracker/ETL/runner"
	"github.com/LilVoxy/covid_tracker/ETL/utils"
	"github.com/LilVoxy/covid_tracker/routes"
	"github.com/LilVoxy/covid_tracker/websocket"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := utils.NewETLLogger(cfg.EnableDetailedLogging, cfg.LogDir)
	defer logger.Close()

	logger.Info("Запуск сервера отчетов...")

	r, err := runner.NewETLRunner(ctx, cfg, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("ошибка при создании ETL Runner: %w", err)
	}
	defer r.Close()

	store := routes.NewReportStore()

	// Создаем и запускаем менеджер WebSocket
	wsManager := websocket.NewManager(logger)
	go wsManager.Run(ctx)

	// Конвейер выполняется сразу и затем по расписанию
	go func() {
		err := r.StartScheduler(ctx, func(res *runner.RunResult) {
			store.Publish(res)
			msg := websocket.ReportUpdated(res.RunID, string(res.Source), res.FinishedAt, res.Report.Rendered)
			if err := wsManager.Broadcast(msg); err != nil {
				logger.Warn("Не удалось оповестить клиентов: %v", err)
			}
		})
		if err != nil {
			logger.Error("Ошибка планировщика: %v", err)
		}
	}()

	// Создаем маршрутизатор
	router := mux.NewRouter()
	handlers := routes.NewHandlers(store, r.RunLog(), r.Predictions(), cfg.Analysis.TopN, logger)
	routes.SetupRoutes(router, handlers, wsManager)

	// Настраиваем сервер
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или ошибку сервера
	select {
	case <-ctx.Done():
		logger.Warn("Получен сигнал завершения, закрываем соединения...")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера: %v", err)
	}

	logger.Info("Сервер остановлен")
	return nil
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "covid_tracker",
		Short:         "Сервер отчетов COVID-19 с обновлением по расписанию",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "Путь к YAML файлу конфигурации")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

package runner

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
)

// StartScheduler выполняет конвейер сразу и затем с интервалом run_interval,
// пока не будет отменен ctx. onComplete получает результат каждого успешного запуска
func (r *ETLRunner) StartScheduler(ctx context.Context, onComplete func(*RunResult)) error {
	scheduler := gocron.NewScheduler(time.UTC)
	// Следующий запуск не начинается, пока не завершен предыдущий
	scheduler.SingletonModeAll()

	r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		result, err := r.ExecuteETL(ctx)
		if err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
			return
		}
		if onComplete != nil {
			onComplete(result)
		}
	})
	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return err
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
	return nil
}

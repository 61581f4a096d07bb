package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// ConnectDatabase устанавливает подключение к OLAP базе данных
func ConnectDatabase(ctx context.Context, config DatabaseConfig) (*sql.DB, error) {
	driver, dsn, err := dataSource(config)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к OLAP базе данных: %w", err)
	}

	// Настройка параметров подключения
	if driver == DriverSQLite {
		// SQLite не поддерживает параллельную запись
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Проверка подключения
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с OLAP базой данных: %w", err)
	}

	return db, nil
}

// dataSource возвращает имя драйвера и DSN
func dataSource(config DatabaseConfig) (string, string, error) {
	switch config.Driver {
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = config.User
		cfg.Passwd = config.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
		cfg.DBName = config.DBName
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return DriverMySQL, cfg.FormatDSN(), nil
	case DriverSQLite:
		if config.Path == "" {
			return "", "", fmt.Errorf("olap.path обязателен для драйвера sqlite")
		}
		return DriverSQLite, fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", config.Path), nil
	default:
		return "", "", fmt.Errorf("неизвестный драйвер базы данных %q", config.Driver)
	}
}

// CloseDatabase закрывает подключение к базе данных
func CloseDatabase(db *sql.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("ошибка при закрытии соединения с OLAP базой данных: %w", err)
	}
	return nil
}

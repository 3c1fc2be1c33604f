// Package database 打开 gorm 连接并负责建表与初始数据
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
)

const (
	memoryDSN   = ":memory:"
	pingTimeout = 5 * time.Second
)

var db *gorm.DB

// Init 连接并校验数据库，结果同时保存供 Close 使用
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newGormLogger(cfg),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db = conn
	return db, nil
}

// configurePool sqlite 内存库每个连接都是独立的库，只能保留一个连接
func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	if isMemorySQLite(cfg) {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
}

func isMemorySQLite(cfg *config.DatabaseConfig) bool {
	return (cfg.Driver == config.DriverSQLite || cfg.Driver == "") && cfg.Path == memoryDSN
}

// openDialector 驱动为空时按 sqlite 处理，文件所在目录不存在则创建
func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		if cfg.Path != "" && cfg.Path != memoryDSN {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return sqlite.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}

// Close 未初始化时直接返回
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}

// getLogLevel 开启 log_mode 时输出全部 SQL，否则只输出慢查询与错误
func getLogLevel(logMode bool) logger.LogLevel {
	if logMode {
		return logger.Info
	}
	return logger.Warn
}

package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"planner/config"
	"planner/logger"
	"planner/models"
)

// DSN 构建 MySQL 连接字符串
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
	)
}

// Open 建立数据库连接并设置连接池
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: NewGormLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger.Info("数据库连接成功", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// NewGormLogger SQL 日志输出到应用日志
func NewGormLogger(level string) gormlogger.Interface {
	writer := logger.Get().StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel})
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  parseGormLevel(level),
		IgnoreRecordNotFoundError: true,
	})
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	logger.Info("数据库迁移完成")
	return nil
}

// Seed 初始化默认数据（仅当对应表为空时）
func Seed(db *gorm.DB) error {
	if err := seedIfEmpty(db, &models.ExpenseCategory{}, models.DefaultExpenseCategories()); err != nil {
		return err
	}
	if err := seedIfEmpty(db, &models.TaskCategory{}, models.DefaultTaskCategories()); err != nil {
		return err
	}
	return seedIfEmpty(db, &models.PaymentMethod{}, models.DefaultPaymentMethods())
}

func seedIfEmpty[T any](db *gorm.DB, model interface{}, rows []T) error {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(rows) == 0 {
		return nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("初始化默认数据失败: %w", err)
	}
	return nil
}

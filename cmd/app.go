package cmd

import (
	"fmt"

	"gorm.io/gorm"

	"planner/config"
	"planner/database"
	"planner/metrics"
	"planner/repository"
	"planner/service"
	"planner/tracker"
)

// app 一次命令运行所需的全部依赖
type app struct {
	db       *gorm.DB
	metrics  *metrics.Metrics
	services *service.Services
}

// newApp 连接数据库并装配服务；migrate 为 true 时先执行建表与初始化数据
func newApp(cfg *config.Config, migrate bool) (*app, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		if err := database.Seed(db); err != nil {
			return nil, err
		}
	}

	m := metrics.New()
	svc := service.New(repository.NewStore(db), tracker.SystemClock(cfg.Tracker.Location), service.Options{
		StreakPolicy: cfg.Tracker.Streak,
		Cascade:      cfg.Tracker.Cascade,
		Notifier:     service.NewEmailService(&cfg.Email),
		Metrics:      m,
	})
	return &app{db: db, metrics: m, services: svc}, nil
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("获取数据库连接失败: %w", err)
	}
	return sqlDB.Close()
}

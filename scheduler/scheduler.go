package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"planner/logger"
	"planner/service"
)

// Generator 周期性支出生成
type Generator interface {
	Generate(ctx context.Context) (*service.GenerateResult, error)
}

// Scheduler 按 cron 表达式定时生成周期性支出
type Scheduler struct {
	cron    *cron.Cron
	gen     Generator
	timeout time.Duration

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// New 创建调度器，spec 为标准 5 段 cron 表达式，loc 决定表达式按哪个时区解释
func New(spec string, loc *time.Location, gen Generator) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{gen: gen, timeout: 5 * time.Minute}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("cron 表达式无效 %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce 立即执行一次生成
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.gen.Generate(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		logger.Error("定时生成周期性支出失败", "err", err)
		return
	}
	logger.Info("定时生成周期性支出", "generated", res.Generated, "elapsed", time.Since(start))
}

// LastRun 最近一次执行的时间与结果
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

// Start 启动时先补跑一次，之后按计划执行；ctx 结束时停止并等待正在运行的任务
func (s *Scheduler) Start(ctx context.Context) error {
	s.RunOnce()
	s.cron.Start()
	logger.Info("周期性支出调度已启动", "next", s.cron.Entries()[0].Next)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.Info("周期性支出调度已停止")
	return nil
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"planner/config"
	"planner/logger"
	"planner/middleware"
	"planner/router"
	"planner/scheduler"
)

var (
	port      string
	noMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	Long:  `启动 REST 接口；启用 recurring.enabled 时同时按 cron 定时生成周期性支出。`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	serveCmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "启动时跳过自动建表")
}

// listenAddr 自动添加冒号前缀
func listenAddr(p string) string {
	if strings.HasPrefix(p, ":") || strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

// newScheduler 未启用自动生成时返回 nil
func newScheduler(cfg *config.Config, gen scheduler.Generator) (*scheduler.Scheduler, error) {
	if !cfg.Recurring.Enabled {
		return nil, nil
	}
	return scheduler.New(cfg.Recurring.Cron, cfg.Tracker.Location, gen)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if port != "" {
		cfg.Server.Port = port
		logger.Info("命令行指定端口", "port", port)
	}
	config.PrintConfig()

	a, err := newApp(cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(cfg, a.services.Recurring)
	if err != nil {
		return err
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)
	}

	srv := &http.Server{
		Addr:              listenAddr(cfg.Server.Port),
		Handler:           router.SetupRouter(cfg, a.services, a.metrics, limiter, sched),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("服务已启动", "addr", srv.Addr,
			"swagger", cfg.Server.BaseURL+"/swagger/index.html",
			"api", cfg.Server.BaseURL+"/api/v1/")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("正在关闭服务")
		return srv.Shutdown(shutdownCtx)
	})

	if sched != nil {
		g.Go(func() error { return sched.Start(gctx) })
	}

	if limiter != nil {
		g.Go(func() error {
			limiter.Cleanup(gctx, time.Minute)
			return nil
		})
	}

	return g.Wait()
}

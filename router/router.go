package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"planner/api"
	"planner/config"
	_ "planner/docs"
	"planner/logger"
	"planner/metrics"
	"planner/middleware"
	"planner/scheduler"
	"planner/service"
)

// SetupRouter 设置路由
// m 为 nil 时不采集请求指标；limiter 为 nil 时不限流；sched 为 nil 时健康检查不含定时任务状态
func SetupRouter(cfg *config.Config, svc *service.Services, m *metrics.Metrics, limiter *middleware.RateLimiter, sched *scheduler.Scheduler) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(logger.Get()))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	if limiter != nil {
		v1.Use(middleware.WriteRateLimit(limiter))
	}
	{
		habitHandler := api.NewHabitHandler(svc.Habits)
		habits := v1.Group("/habits")
		{
			habits.GET("", habitHandler.List)
			habits.POST("", habitHandler.Create)
			habits.GET("/:id", habitHandler.Get)
			habits.PUT("/:id", habitHandler.Update)
			habits.DELETE("/:id", habitHandler.Delete)
			habits.GET("/:id/streak", habitHandler.Streak)
			habits.POST("/:id/complete", habitHandler.Complete)
		}

		goalHandler := api.NewGoalHandler(svc.Goals)
		goals := v1.Group("/goals")
		{
			goals.GET("", goalHandler.List)
			goals.POST("", goalHandler.Create)
			goals.GET("/:id", goalHandler.Get)
			goals.PUT("/:id", goalHandler.Update)
			goals.DELETE("/:id", goalHandler.Delete)
			goals.GET("/:id/progress", goalHandler.Progress)
			goals.POST("/:id/toggle", goalHandler.Toggle)
		}

		taskHandler := api.NewTaskHandler(svc.Tasks, svc.Catalog)
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/by-date-range", taskHandler.ListByDateRange)
			tasks.GET("/goal/:goalId", taskHandler.ListByGoal)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
			tasks.POST("/:id/complete", taskHandler.Complete)
			tasks.POST("/:id/subtasks", taskHandler.AddSubTask)
			tasks.PUT("/subtasks/:subtaskId", taskHandler.UpdateSubTask)
			tasks.DELETE("/subtasks/:subtaskId", taskHandler.DeleteSubTask)
		}
		v1.GET("/task-categories", taskHandler.Categories)

		// 支出记录
		expenseHandler := api.NewExpenseHandler(svc.Expenses, svc.Insights, svc.Clock)
		expenses := v1.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/summary", expenseHandler.Summary)
			expenses.GET("/trend", expenseHandler.Trend)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		categoryHandler := api.NewCategoryHandler(svc.Catalog)
		v1.GET("/expense-categories", categoryHandler.List)
		v1.POST("/expense-categories", categoryHandler.Create)
		v1.DELETE("/expense-categories/:id", categoryHandler.Delete)
		v1.GET("/payment-methods", categoryHandler.PaymentMethods)

		budgetHandler := api.NewBudgetHandler(svc.Budgets, svc.Clock)
		v1.GET("/budgets", budgetHandler.List)
		v1.POST("/budgets", budgetHandler.Upsert)
		v1.GET("/budgets/status", budgetHandler.Status)

		recurringHandler := api.NewRecurringHandler(svc.Recurring)
		recurring := v1.Group("/recurring-expenses")
		{
			recurring.GET("", recurringHandler.List)
			recurring.POST("", recurringHandler.Create)
			recurring.POST("/generate", recurringHandler.Generate)
			recurring.PUT("/:id", recurringHandler.Update)
			recurring.DELETE("/:id", recurringHandler.Delete)
		}

		v1.GET("/periods/window", api.NewPeriodHandler(svc.Clock).Window)

		// 导出相关
		exportHandler := api.NewExportHandler(svc.Expenses, svc.Catalog)
		export := v1.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/xlsx", exportHandler.ExportXLSX)
		}
	}

	// 健康检查
	r.GET("/health", healthHandler(sched))

	return r
}

func healthHandler(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{"status": "ok"}
		if sched != nil {
			recurring := gin.H{"last_run": nil, "last_error": nil}
			if at, err := sched.LastRun(); !at.IsZero() {
				recurring["last_run"] = at
				if err != nil {
					recurring["last_error"] = api.SafeErrorMessage(err, "生成失败")
				}
			}
			resp["recurring"] = recurring
		}
		c.JSON(200, resp)
	}
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
